// Package board holds the live tiles of one deal and answers which of them
// can be played.
package board

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
)

var ErrInvalidLayout = errors.New("invalid layout")

// Tile is a slot bound to a face. ID is the slot's emission index and never
// changes; Removed flips once, when the tile is matched.
type Tile struct {
	ID   int
	Face Face
	layout.Slot
	Removed bool
}

// Board owns every tile of one deal, removed or not.
type Board struct {
	tiles []Tile
}

// Build deals faces onto slots. Each face used appears on exactly two tiles;
// past 27 pairs the palette repeats. rng shuffles the deal; nil seeds from
// the clock.
func Build(slots []layout.Slot, rng *rand.Rand) (*Board, error) {
	if len(slots) == 0 || len(slots)%2 != 0 {
		return nil, fmt.Errorf("%w: %d slots", ErrInvalidLayout, len(slots))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	faces := make([]Face, 0, len(slots))
	for i := 0; i < len(slots)/2; i++ {
		f := Palette[i%FaceCount]
		faces = append(faces, f, f)
	}
	rng.Shuffle(len(faces), func(i, j int) {
		faces[i], faces[j] = faces[j], faces[i]
	})

	tiles := make([]Tile, len(slots))
	for i, s := range slots {
		tiles[i] = Tile{ID: i, Face: faces[i], Slot: s}
	}
	return &Board{tiles: tiles}, nil
}

// New wraps already-dealt tiles. IDs must equal their index.
func New(tiles []Tile) (*Board, error) {
	for i, t := range tiles {
		if t.ID != i {
			return nil, fmt.Errorf("%w: tile at index %d has id %d", ErrInvalidLayout, i, t.ID)
		}
	}
	b := &Board{tiles: make([]Tile, len(tiles))}
	copy(b.tiles, tiles)
	return b, nil
}

// Tiles returns a copy of every tile in id order, removed ones included.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Tile looks up a tile by id.
func (b *Board) Tile(id int) (Tile, bool) {
	if id < 0 || id >= len(b.tiles) {
		return Tile{}, false
	}
	return b.tiles[id], true
}

func (b *Board) Len() int { return len(b.tiles) }

// Remaining counts tiles not yet removed.
func (b *Board) Remaining() int {
	n := 0
	for _, t := range b.tiles {
		if !t.Removed {
			n++
		}
	}
	return n
}

// Cleared reports whether every tile has been removed.
func (b *Board) Cleared() bool { return b.Remaining() == 0 }

// Remove removes two distinct live tiles with the same face.
func (b *Board) Remove(a, c int) error {
	ta, okA := b.Tile(a)
	tc, okC := b.Tile(c)
	switch {
	case !okA || !okC:
		return fmt.Errorf("unknown tile id in pair (%d, %d)", a, c)
	case a == c:
		return fmt.Errorf("tile %d cannot match itself", a)
	case ta.Removed || tc.Removed:
		return fmt.Errorf("tiles (%d, %d) already removed", a, c)
	case ta.Face != tc.Face:
		return fmt.Errorf("faces differ: %s vs %s", ta.Face, tc.Face)
	}
	b.tiles[a].Removed = true
	b.tiles[c].Removed = true
	return nil
}

// Pairs counts live tiles per face.
func (b *Board) Pairs() map[Face]int {
	counts := make(map[Face]int)
	for _, t := range b.tiles {
		if !t.Removed {
			counts[t.Face]++
		}
	}
	return counts
}

// CheckPairs returns an error if some face has an odd number of live tiles.
func (b *Board) CheckPairs() error {
	for f, n := range b.Pairs() {
		if n%2 != 0 {
			return fmt.Errorf("%w: face %s has %d live tiles", ErrInvalidLayout, f, n)
		}
	}
	return nil
}
