package board

import (
	"sort"

	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
)

// Overlaps reports whether two different tiles share any area. Touching
// edges do not count.
func Overlaps(a, b Tile) bool {
	return a.ID != b.ID && a.Slot.Overlaps(b.Slot)
}

// IsCovered reports whether a live tile on a strictly higher layer overlaps t.
func IsCovered(t Tile, tiles []Tile) bool {
	for _, o := range tiles {
		if !o.Removed && o.Layer > t.Layer && Overlaps(t, o) {
			return true
		}
	}
	return false
}

// IsFree reports whether t can be selected: nothing above it and at least
// one of its left or right sides open on its own layer.
func IsFree(t Tile, tiles []Tile) bool {
	if t.Removed || IsCovered(t, tiles) {
		return false
	}

	var leftBlocked, rightBlocked bool
	for _, o := range tiles {
		if o.Removed || o.ID == t.ID || o.Layer != t.Layer {
			continue
		}
		if t.TouchesLeft(o.Slot, layout.SideTolerance) {
			leftBlocked = true
		}
		if t.TouchesRight(o.Slot, layout.SideTolerance) {
			rightBlocked = true
		}
		if leftBlocked && rightBlocked {
			return false
		}
	}
	return true
}

// IsFree reports whether the tile with id can be selected. Unknown ids are
// never free.
func (b *Board) IsFree(id int) bool {
	t, ok := b.Tile(id)
	return ok && IsFree(t, b.tiles)
}

// IsCovered reports whether the tile with id has a live tile above it.
func (b *Board) IsCovered(id int) bool {
	t, ok := b.Tile(id)
	return ok && IsCovered(t, b.tiles)
}

// FreeTiles returns the selectable tiles in id order.
func (b *Board) FreeTiles() []Tile {
	var free []Tile
	for _, t := range b.tiles {
		if IsFree(t, b.tiles) {
			free = append(free, t)
		}
	}
	return free
}

// Visible returns the live tiles in draw order: lower layers first, ties
// broken by id.
func (b *Board) Visible() []Tile {
	visible := make([]Tile, 0, len(b.tiles))
	for _, t := range b.tiles {
		if !t.Removed {
			visible = append(visible, t)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Layer < visible[j].Layer
	})
	return visible
}

// AvailableMatches counts the matching pairs that can be played right now.
func (b *Board) AvailableMatches() int {
	counts := make(map[Face]int)
	for _, t := range b.FreeTiles() {
		counts[t.Face]++
	}
	n := 0
	for _, c := range counts {
		n += c * (c - 1) / 2
	}
	return n
}
