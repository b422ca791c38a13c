package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/Dulani/Mahjong-Solitaire/internal/board"
	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
	"github.com/Dulani/Mahjong-Solitaire/internal/state"
)

// ErrInvalidLevel is returned for levels outside layout.MinLevel..layout.MaxLevel.
var ErrInvalidLevel = layout.ErrInvalidLevel

// Game encapsulates one level, independent of the UI.
type Game struct {
	State  *state.State
	Layout string // strategy name the board was dealt from

	// Fallback is set when the requested layout could not be dealt and the
	// minimum formula layout was used instead.
	Fallback bool
}

// NewGame generates the layout for level and deals a board onto it.
func NewGame(s layout.Strategy, level int, rng *rand.Rand) (*Game, error) {
	slots, err := layout.Generate(s, level)
	if err != nil {
		return nil, fmt.Errorf("generating level %d: %w", level, err)
	}

	name := layout.Formula{}.Name()
	if s != nil {
		name = s.Name()
	}
	return deal(slots, name, level, rng)
}

// deal builds the board, retrying once on the minimum formula layout.
func deal(slots []layout.Slot, name string, level int, rng *rand.Rand) (*Game, error) {
	fallback := false
	b, err := board.Build(slots, rng)
	if errors.Is(err, board.ErrInvalidLayout) {
		fallback = true
		name = layout.Formula{}.Name()
		slots, err = layout.Generate(layout.Formula{}, layout.MinLevel)
		if err == nil {
			b, err = board.Build(slots, rng)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("dealing level %d: %w", level, err)
	}

	return &Game{
		State:    state.NewState(b, level),
		Layout:   name,
		Fallback: fallback,
	}, nil
}

// HandleActivate processes a click on tile id.
func (g *Game) HandleActivate(id int) state.Feedback {
	// If the board is already cleared, nothing changes
	if g.State.Won {
		return g.State.Feedback
	}
	return g.State.Activate(id)
}

func (g *Game) IsWon() bool {
	return g.State.Won
}

func (g *Game) Level() int {
	return g.State.Level
}
