package state

import (
	"context"

	"github.com/Dulani/Mahjong-Solitaire/internal/board"
	"github.com/looplab/fsm"
)

// NoSelection is the Selected value when no tile is held.
const NoSelection = -1

type State struct {
	Board    *board.Board
	Level    int
	Selected int // NoSelection or the id of the held tile
	Feedback Feedback
	Won      bool
	FSM      *fsm.FSM

	target int // tile being activated
}

// NewState wraps a freshly built board for the given level.
func NewState(b *board.Board, level int) *State {
	s := &State{
		Board:    b,
		Level:    level,
		Selected: NoSelection,
		target:   NoSelection,
	}

	s.FSM = fsm.NewFSM(
		"idle",
		getStateTransitions(),
		getStateCallbacks(s),
	)

	return s
}

// Activate handles a click on tile id and returns the resulting feedback.
// Unknown or removed ids, and clicks after the board is cleared, change
// nothing.
func (s *State) Activate(id int) Feedback {
	if s.Won {
		return s.Feedback
	}
	_ = s.FSM.Event(context.Background(), "activate", id)
	return s.Feedback
}

func getStateTransitions() []fsm.EventDesc {
	return fsm.Events{
		{Name: "activate", Src: []string{"idle", "oneSelected"}, Dst: "checkTile"},

		// Rejected clicks go back where they came from
		{Name: "restoreIdle", Src: []string{"checkTile"}, Dst: "idle"},
		{Name: "restoreSelection", Src: []string{"checkTile"}, Dst: "oneSelected"},

		{Name: "select", Src: []string{"checkTile"}, Dst: "oneSelected"},
		{Name: "deselect", Src: []string{"checkTile"}, Dst: "idle"},
		{Name: "pair", Src: []string{"checkTile"}, Dst: "resolvePair"},

		{Name: "matched", Src: []string{"resolvePair"}, Dst: "idle"},
		{Name: "mismatch", Src: []string{"resolvePair"}, Dst: "idle"},
		{Name: "clear", Src: []string{"resolvePair"}, Dst: "won"},
	}
}

func getStateCallbacks(s *State) map[string]fsm.Callback {
	return fsm.Callbacks{
		"enter_checkTile": func(ctx context.Context, e *fsm.Event) {
			s.target = NoSelection
			if len(e.Args) > 0 {
				if id, ok := e.Args[0].(int); ok {
					s.target = id
				}
			}

			t, ok := s.Board.Tile(s.target)
			if !ok || t.Removed {
				s.restore(ctx, e)
				return
			}
			if !s.Board.IsFree(s.target) {
				s.Feedback = Feedback{Kind: NotFree}
				s.restore(ctx, e)
				return
			}

			switch s.Selected {
			case NoSelection:
				s.Selected = s.target
				s.Feedback = Feedback{Kind: Prompted}
				e.FSM.Event(ctx, "select")
			case s.target:
				s.Selected = NoSelection
				s.Feedback = Feedback{}
				e.FSM.Event(ctx, "deselect")
			default:
				e.FSM.Event(ctx, "pair")
			}
		},
		"enter_resolvePair": func(ctx context.Context, e *fsm.Event) {
			first, second := s.Selected, s.target
			s.Selected = NoSelection

			// Remove refuses pairs whose faces differ.
			if s.Board.Remove(first, second) != nil {
				s.Feedback = Feedback{Kind: Mismatch}
				e.FSM.Event(ctx, "mismatch")
				return
			}

			if s.Board.Cleared() {
				s.Won = true
				s.Feedback = Feedback{Kind: LevelCleared, Level: s.Level}
				e.FSM.Event(ctx, "clear")
				return
			}
			s.Feedback = Feedback{Kind: Matched}
			e.FSM.Event(ctx, "matched")
		},
	}
}

// restore returns from checkTile to the state the click started in.
func (s *State) restore(ctx context.Context, e *fsm.Event) {
	if s.Selected == NoSelection {
		e.FSM.Event(ctx, "restoreIdle")
		return
	}
	e.FSM.Event(ctx, "restoreSelection")
}
