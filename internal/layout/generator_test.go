package layout

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate_Parity(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		slots, err := Generate(Formula{}, level)
		if err != nil {
			t.Fatalf("Generate(%d) failed: %v", level, err)
		}
		if len(slots)%2 != 0 {
			t.Errorf("level %d: expected even slot count, got %d", level, len(slots))
		}
		if len(slots) != Count(level) {
			t.Errorf("level %d: expected %d slots, got %d", level, Count(level), len(slots))
		}
	}
}

func TestGenerate_GrowsWithLevel(t *testing.T) {
	prev := 0
	for level := 1; level <= 12; level++ {
		slots, _ := Generate(Formula{}, level)
		if len(slots) <= prev {
			t.Errorf("level %d: expected more than %d slots, got %d", level, prev, len(slots))
		}
		prev = len(slots)
	}
}

func TestGenerate_InvalidLevel(t *testing.T) {
	for _, level := range []int{0, -1, -20, MaxLevel + 1, 2000000} {
		_, err := Generate(Formula{}, level)
		if !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("Generate(%d): expected ErrInvalidLevel, got %v", level, err)
		}
		if n := Count(level); n != 0 {
			t.Errorf("Count(%d) = %d, expected 0", level, n)
		}
	}
	if _, err := Generate(Turtle(), MaxLevel+1); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("Presets should reject levels above MaxLevel too, got %v", err)
	}
}

func TestGenerate_NilStrategyUsesFormula(t *testing.T) {
	slots, err := Generate(nil, 2)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(slots) != Count(2) {
		t.Errorf("Expected %d slots, got %d", Count(2), len(slots))
	}
}

func TestFormula_LayersShrinkAndCenter(t *testing.T) {
	level := 4
	slots, _ := Generate(Formula{}, level)

	byLayer := map[int][]Slot{}
	for _, s := range slots {
		byLayer[s.Layer] = append(byLayer[s.Layer], s)
	}
	if len(byLayer) != level {
		t.Fatalf("Expected %d layers, got %d", level, len(byLayer))
	}

	for z := 0; z < level; z++ {
		layer := byLayer[z]
		side := (level - z) * 2
		if len(layer) != side*side {
			t.Errorf("layer %d: expected %d slots, got %d", z, side*side, len(layer))
		}
		minX, maxX := layer[0].X, layer[0].Right()
		minY, maxY := layer[0].Y, layer[0].Bottom()
		for _, s := range layer {
			minX, maxX = min(minX, s.X), max(maxX, s.Right())
			minY, maxY = min(minY, s.Y), max(maxY, s.Bottom())
		}
		if (minX+maxX)/2 != OriginX || (minY+maxY)/2 != OriginY {
			t.Errorf("layer %d: expected center (%v,%v), got (%v,%v)", z, OriginX, OriginY, (minX+maxX)/2, (minY+maxY)/2)
		}
	}
}

func TestFormula_UpperTilesRestOnLowerTiles(t *testing.T) {
	slots, _ := Generate(Formula{}, 3)
	for _, s := range slots {
		if s.Layer == 0 {
			continue
		}
		supported := false
		for _, o := range slots {
			if o.Layer == s.Layer-1 && s.Overlaps(o) {
				supported = true
				break
			}
		}
		if !supported {
			t.Errorf("slot %+v floats over nothing", s)
		}
	}
}

func TestTurtle(t *testing.T) {
	p := Turtle()
	if p.Name() != "Turtle" {
		t.Errorf("Expected name Turtle, got %q", p.Name())
	}
	if len(p.Slots) != 144 {
		t.Fatalf("Expected 144 slots, got %d", len(p.Slots))
	}

	counts := make([]int, p.Layers())
	for _, s := range p.Slots {
		counts[s.Layer]++
	}
	if diff := cmp.Diff([]int{87, 36, 16, 4, 1}, counts); diff != "" {
		t.Errorf("layer counts mismatch (-want +got):\n%s", diff)
	}

	// Generating the preset ignores the level.
	a, _ := Generate(p, 1)
	b, _ := Generate(p, 9)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("preset depends on level (-1 +9):\n%s", diff)
	}
}

func TestTurtle_ReturnsCopy(t *testing.T) {
	p := Turtle()
	p.Slots[0].X = -1
	if Turtle().Slots[0].X == -1 {
		t.Error("Turtle() should not share its slots with callers")
	}
}

func grid(cols, rows, layer int) []Slot {
	var slots []Slot
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			slots = append(slots, Slot{
				X: float64(c) * TileWidth, Y: float64(r) * TileHeight,
				Layer: layer, Width: TileWidth, Height: TileHeight,
			})
		}
	}
	return slots
}

func TestEvenOut_DropsUncoveredInteriorBaseSlot(t *testing.T) {
	// 4x3 base; interior slots are (1,1) and (2,1). One tile rests on (1,1).
	slots := grid(4, 3, 0)
	slots = append(slots, Slot{X: TileWidth, Y: TileHeight, Layer: 1, Width: TileWidth, Height: TileHeight})

	got := evenOut(slots)
	if len(got) != 12 {
		t.Fatalf("Expected 12 slots, got %d", len(got))
	}

	want := make([]Slot, 0, 12)
	want = append(want, slots[:6]...)
	want = append(want, slots[7:]...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong slot dropped (-want +got):\n%s", diff)
	}
}

func TestEvenOut_CoveredInteriorBeatsEdge(t *testing.T) {
	// 3x3 base with the only interior slot covered twice over.
	slots := grid(3, 3, 0)
	center := Slot{X: TileWidth, Y: TileHeight, Width: TileWidth, Height: TileHeight}
	for z := 1; z <= 2; z++ {
		s := center
		s.Layer = z
		slots = append(slots, s)
	}

	got := evenOut(slots)
	if len(got) != 10 {
		t.Fatalf("Expected 10 slots, got %d", len(got))
	}
	for _, s := range got {
		if s.Layer == 0 && s.X == TileWidth && s.Y == TileHeight {
			t.Error("Expected the interior base slot to be dropped")
		}
	}
}

func TestEvenOut_NoInteriorDropsLastBaseSlot(t *testing.T) {
	slots := grid(3, 1, 0)
	got := evenOut(slots)
	if diff := cmp.Diff(slots[:2], got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestEvenOut_SingleBaseSlotDropsLast(t *testing.T) {
	slots := []Slot{
		{X: 0, Y: 0, Layer: 0, Width: TileWidth, Height: TileHeight},
		{X: 0, Y: 0, Layer: 1, Width: TileWidth, Height: TileHeight},
		{X: 0, Y: 0, Layer: 2, Width: TileWidth, Height: TileHeight},
	}
	got := evenOut(slots)
	if diff := cmp.Diff(slots[:2], got); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestGenerate_DegeneratePresetFallsBack(t *testing.T) {
	p := Preset{Title: "lonely", Slots: []Slot{{X: 0, Y: 0, Width: TileWidth, Height: TileHeight}}}
	slots, err := Generate(p, 3)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(slots) != Count(MinLevel) {
		t.Errorf("Expected fallback of %d slots, got %d", Count(MinLevel), len(slots))
	}

	slots, _ = Generate(Preset{Title: "empty"}, 1)
	if len(slots) == 0 || len(slots)%2 != 0 {
		t.Errorf("Expected non-empty even fallback, got %d", len(slots))
	}
}

func TestSlot_Overlaps(t *testing.T) {
	a := Slot{X: 0, Y: 0, Width: 80, Height: 100}
	tests := []struct {
		name string
		b    Slot
		want bool
	}{
		{"identical", a, true},
		{"partial", Slot{X: 40, Y: 50, Width: 80, Height: 100}, true},
		{"touching right edge", Slot{X: 80, Y: 0, Width: 80, Height: 100}, false},
		{"touching bottom edge", Slot{X: 0, Y: 100, Width: 80, Height: 100}, false},
		{"apart", Slot{X: 200, Y: 300, Width: 80, Height: 100}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.b); got != tt.want {
			t.Errorf("%s: a.Overlaps(b) = %v, expected %v", tt.name, got, tt.want)
		}
		if got := tt.b.Overlaps(a); got != tt.want {
			t.Errorf("%s: b.Overlaps(a) = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

func TestSlot_Touches(t *testing.T) {
	s := Slot{X: 100, Y: 100, Width: 80, Height: 100}
	left := Slot{X: 25, Y: 150, Width: 80, Height: 100} // right edge 105, within 10
	right := Slot{X: 171, Y: 0, Width: 80, Height: 101} // left edge 171, within 10 of 180
	far := Slot{X: 300, Y: 100, Width: 80, Height: 100}
	offRow := Slot{X: 20, Y: 200, Width: 80, Height: 100} // spans only touch vertically

	if !s.TouchesLeft(left, SideTolerance) {
		t.Error("Expected left neighbor to touch")
	}
	if !s.TouchesRight(right, SideTolerance) {
		t.Error("Expected right neighbor to touch")
	}
	if s.TouchesRight(far, SideTolerance) {
		t.Error("Far tile should not touch")
	}
	if s.TouchesLeft(offRow, SideTolerance) {
		t.Error("Tile that only shares a corner should not touch")
	}
}
