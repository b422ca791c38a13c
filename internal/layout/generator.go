// Package layout builds the stacked tile positions a board is dealt onto.
package layout

import (
	"errors"

	"github.com/zyedidia/generic/mapset"
)

// MinLevel is the smallest playable level and the size of the fallback layout.
// MaxLevel is the largest; the formula grows with the cube of the level.
const (
	MinLevel = 1
	MaxLevel = 50
)

var (
	ErrInvalidLevel = errors.New("level must be between 1 and 50")
	ErrEmptyLayout  = errors.New("layout has no tiles")
)

// Strategy selects how slots are produced. It is implemented only by
// Formula and Preset.
type Strategy interface {
	Name() string
	slots(level int) []Slot
}

// Formula is the level-driven pyramid: layer z of level L is a square of
// (L-z)*2 tiles per side, centered on the origin, for z in [0, L).
type Formula struct{}

func (Formula) Name() string { return "formula" }

func (Formula) slots(level int) []Slot {
	slots := make([]Slot, 0, Count(level))
	for z := 0; z < level; z++ {
		n := (level - z) * 2
		startX := OriginX - float64(n)*TileWidth/2
		startY := OriginY - float64(n)*TileHeight/2
		for r := 0; r < n; r++ {
			for c := 0; c < n; c++ {
				slots = append(slots, Slot{
					X:      startX + float64(c)*TileWidth,
					Y:      startY + float64(r)*TileHeight,
					Layer:  z,
					Width:  TileWidth,
					Height: TileHeight,
				})
			}
		}
	}
	return slots
}

// Count returns the number of slots Formula produces for level.
func Count(level int) int {
	if level < MinLevel || level > MaxLevel {
		return 0
	}
	return 2 * level * (level + 1) * (2*level + 1) / 3
}

// Preset is a fixed, hand-authored layout. It ignores the level.
type Preset struct {
	Title string
	Slots []Slot
}

func (p Preset) Name() string { return p.Title }

func (p Preset) slots(int) []Slot {
	out := make([]Slot, len(p.Slots))
	copy(out, p.Slots)
	return out
}

// Layers returns the number of distinct layers in the preset.
func (p Preset) Layers() int {
	top := -1
	for _, s := range p.Slots {
		top = max(top, s.Layer)
	}
	return top + 1
}

// Generate returns the slots for level under the given strategy. The result
// always has an even, non-zero length: an odd layout loses one slot, and an
// empty one is replaced by the minimum formula layout.
func Generate(s Strategy, level int) ([]Slot, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, ErrInvalidLevel
	}
	if s == nil {
		s = Formula{}
	}
	slots := evenOut(s.slots(level))
	if len(slots) == 0 {
		slots = evenOut(Formula{}.slots(MinLevel))
	}
	return slots, nil
}

// evenOut drops one slot from an odd layout. Interior base-layer slots that
// nothing rests on go first, so the silhouette and the stacks stay intact.
func evenOut(slots []Slot) []Slot {
	if len(slots)%2 == 0 {
		return slots
	}
	drop := dropCandidate(slots)
	out := make([]Slot, 0, len(slots)-1)
	out = append(out, slots[:drop]...)
	return append(out, slots[drop+1:]...)
}

func dropCandidate(slots []Slot) int {
	base := make([]int, 0, len(slots))
	for i, s := range slots {
		if s.Layer == 0 {
			base = append(base, i)
		}
	}
	if len(base) <= 1 {
		return len(slots) - 1
	}

	covered := mapset.New[int]()
	for _, i := range base {
		for _, o := range slots {
			if o.Layer > 0 && slots[i].Overlaps(o) {
				covered.Put(i)
				break
			}
		}
	}

	best, bestRank := base[len(base)-1], -1
	for _, i := range base {
		rank := 0
		if isInterior(slots, i) {
			rank = 1
			if !covered.Has(i) {
				rank = 2
			}
		}
		if rank >= bestRank {
			best, bestRank = i, rank
		}
	}
	return best
}

// isInterior reports whether slots[i] has a same-layer neighbor on all four sides.
func isInterior(slots []Slot, i int) bool {
	s := slots[i]
	var left, right, above, below bool
	for j, o := range slots {
		if j == i || o.Layer != s.Layer {
			continue
		}
		left = left || s.TouchesLeft(o, SideTolerance)
		right = right || s.TouchesRight(o, SideTolerance)
		above = above || s.TouchesAbove(o, SideTolerance)
		below = below || s.TouchesBelow(o, SideTolerance)
	}
	return left && right && above && below
}
