package layout

// Logical tile size and board origin. Every strategy centers its layers on
// the origin, so coordinates from different levels share one frame.
const (
	TileWidth  = 80.0
	TileHeight = 100.0
	OriginX    = 1000.0
	OriginY    = 800.0

	// SideTolerance is how far apart two same-layer edges may be and still
	// count as touching.
	SideTolerance = 10.0
)

// Slot is a generated tile position before a face is assigned.
type Slot struct {
	X, Y          float64
	Layer         int
	Width, Height float64
}

func (s Slot) Right() float64  { return s.X + s.Width }
func (s Slot) Bottom() float64 { return s.Y + s.Height }

// Overlaps reports whether the half-open rectangles of s and o intersect.
// Touching edges do not overlap.
func (s Slot) Overlaps(o Slot) bool {
	return s.X < o.Right() && s.Right() > o.X &&
		s.Y < o.Bottom() && s.Bottom() > o.Y
}

// VerticalOverlap reports whether the open vertical spans intersect.
func (s Slot) VerticalOverlap(o Slot) bool {
	return s.Y < o.Bottom() && s.Bottom() > o.Y
}

// HorizontalOverlap reports whether the open horizontal spans intersect.
func (s Slot) HorizontalOverlap(o Slot) bool {
	return s.X < o.Right() && s.Right() > o.X
}

// TouchesLeft reports whether o sits against the left edge of s.
func (s Slot) TouchesLeft(o Slot, tol float64) bool {
	return within(o.Right(), s.X, tol) && s.VerticalOverlap(o)
}

// TouchesRight reports whether o sits against the right edge of s.
func (s Slot) TouchesRight(o Slot, tol float64) bool {
	return within(o.X, s.Right(), tol) && s.VerticalOverlap(o)
}

// TouchesAbove reports whether o sits against the top edge of s (smaller y).
func (s Slot) TouchesAbove(o Slot, tol float64) bool {
	return within(o.Bottom(), s.Y, tol) && s.HorizontalOverlap(o)
}

// TouchesBelow reports whether o sits against the bottom edge of s.
func (s Slot) TouchesBelow(o Slot, tol float64) bool {
	return within(o.Y, s.Bottom(), tol) && s.HorizontalOverlap(o)
}

func within(v, edge, tol float64) bool {
	return v >= edge-tol && v <= edge+tol
}
