package game

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/Dulani/Mahjong-Solitaire/internal/board"
	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
	"github.com/Dulani/Mahjong-Solitaire/internal/state"
)

// pairsByFace groups the live tile ids of g by face.
func pairsByFace(g *Game) map[board.Face][]int {
	out := make(map[board.Face][]int)
	for _, t := range g.State.Board.Visible() {
		out[t.Face] = append(out[t.Face], t.ID)
	}
	return out
}

// clearBoard plays every free pair until the board is empty.
func clearBoard(t *testing.T, activate func(int) state.Feedback, g *Game) state.Feedback {
	t.Helper()
	var fb state.Feedback
	for !g.IsWon() {
		played := false
		free := g.State.Board.FreeTiles()
		for i := 0; i < len(free) && !played; i++ {
			for j := i + 1; j < len(free); j++ {
				if free[i].Face == free[j].Face {
					activate(free[i].ID)
					fb = activate(free[j].ID)
					played = true
					break
				}
			}
		}
		if !played {
			t.Fatalf("No free pair left with %d tiles remaining", g.State.Board.Remaining())
		}
	}
	return fb
}

func TestNewGame(t *testing.T) {
	g, err := NewGame(layout.Formula{}, 2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if g.Level() != 2 {
		t.Errorf("Expected level 2, got %d", g.Level())
	}
	if g.State.Board.Len() != layout.Count(2) {
		t.Errorf("Expected %d tiles, got %d", layout.Count(2), g.State.Board.Len())
	}
	if g.Layout != "formula" || g.Fallback {
		t.Errorf("Unexpected layout %q fallback=%v", g.Layout, g.Fallback)
	}
}

func TestNewGame_NilStrategy(t *testing.T) {
	g, err := NewGame(nil, 1, nil)
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if g.Layout != "formula" {
		t.Errorf("Expected formula layout, got %q", g.Layout)
	}
}

func TestNewGame_InvalidLevel(t *testing.T) {
	_, err := NewGame(layout.Formula{}, 0, nil)
	if !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Expected ErrInvalidLevel, got %v", err)
	}
}

func TestDeal_FallsBackOnOddLayout(t *testing.T) {
	odd := []layout.Slot{
		{X: 0, Width: layout.TileWidth, Height: layout.TileHeight},
		{X: 80, Width: layout.TileWidth, Height: layout.TileHeight},
		{X: 160, Width: layout.TileWidth, Height: layout.TileHeight},
	}
	g, err := deal(odd, "broken", 7, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("deal failed: %v", err)
	}
	if !g.Fallback {
		t.Error("Expected fallback to be set")
	}
	if g.Layout != "formula" {
		t.Errorf("Expected formula layout after fallback, got %q", g.Layout)
	}
	if g.State.Board.Len() != layout.Count(layout.MinLevel) {
		t.Errorf("Expected %d tiles, got %d", layout.Count(layout.MinLevel), g.State.Board.Len())
	}
	if g.Level() != 7 {
		t.Errorf("Fallback keeps the requested level, got %d", g.Level())
	}
}

func TestGame_Gameplay_Flow(t *testing.T) {
	g, _ := NewGame(layout.Formula{}, 1, rand.New(rand.NewSource(5)))

	var a, b []int
	for _, ids := range pairsByFace(g) {
		if a == nil {
			a = ids
		} else {
			b = ids
		}
	}

	if fb := g.HandleActivate(a[0]); fb.Kind != state.Prompted {
		t.Errorf("Expected Prompted, got %v", fb.Kind)
	}
	if fb := g.HandleActivate(b[0]); fb.Kind != state.Mismatch {
		t.Errorf("Expected Mismatch, got %v", fb.Kind)
	}

	g.HandleActivate(a[0])
	if fb := g.HandleActivate(a[1]); fb.Kind != state.Matched {
		t.Errorf("Expected Matched, got %v", fb.Kind)
	}

	g.HandleActivate(b[0])
	fb := g.HandleActivate(b[1])
	if fb.Kind != state.LevelCleared || fb.Level != 1 {
		t.Errorf("Expected LevelCleared for level 1, got %+v", fb)
	}
	if !g.IsWon() {
		t.Error("Game should be won")
	}

	// Clicks after the win change nothing
	if got := g.HandleActivate(a[0]); got != fb {
		t.Errorf("Expected %+v, got %+v", fb, got)
	}
}
