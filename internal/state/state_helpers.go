package state

import "fmt"

type FeedbackKind int

const (
	None FeedbackKind = iota
	Prompted
	NotFree
	Matched
	Mismatch
	LevelCleared
)

// Feedback is the message shown after a click. Level is set only for
// LevelCleared.
type Feedback struct {
	Kind  FeedbackKind
	Level int
}

func (f Feedback) String() string {
	switch f.Kind {
	case Prompted:
		return "Selected a tile. Click on its match."
	case NotFree:
		return "Tile is not free."
	case Matched:
		return "Matched!"
	case Mismatch:
		return "Tiles do not match."
	case LevelCleared:
		return fmt.Sprintf("Congratulations! Level %d cleared!", f.Level)
	}
	return ""
}

func (k FeedbackKind) String() string {
	switch k {
	case None:
		return "none"
	case Prompted:
		return "prompted"
	case NotFree:
		return "not_free"
	case Matched:
		return "matched"
	case Mismatch:
		return "mismatch"
	case LevelCleared:
		return "level_cleared"
	}
	return fmt.Sprintf("feedback(%d)", int(k))
}

func (s State) HasSelection() bool {
	return s.Selected != NoSelection
}

func (s State) IsSelected(id int) bool {
	return s.HasSelection() && s.Selected == id
}

// Current returns the FSM state name, e.g. "idle" or "oneSelected".
func (s State) Current() string {
	return s.FSM.Current()
}
