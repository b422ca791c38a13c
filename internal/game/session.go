package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Dulani/Mahjong-Solitaire/internal/board"
	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
	"github.com/Dulani/Mahjong-Solitaire/internal/state"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultAdvanceDelay is how long a cleared board stays up before the next
// level is dealt.
const DefaultAdvanceDelay = 2 * time.Second

type Options struct {
	Level        int             // starting level, 0 means layout.MinLevel
	Strategy     layout.Strategy // nil means layout.Formula
	Seed         int64           // 0 seeds from the clock
	AdvanceDelay time.Duration   // 0 means DefaultAdvanceDelay
	Logger       *zerolog.Logger // nil disables logging
	Now          func() time.Time
}

// Advance is a scheduled move to the next level. The caller runs the timer
// and hands Generation back to AdvanceLevel when Due passes.
type Advance struct {
	Generation uint64
	Level      int
	Due        time.Time
}

// Session owns the level counter and the current game across levels.
type Session struct {
	ID          string
	CurrentGame *Game

	strategy   layout.Strategy
	delay      time.Duration
	rng        *rand.Rand
	now        func() time.Time
	log        zerolog.Logger
	level      int
	generation uint64
	pending    *Advance
}

func NewSession(opts Options) (*Session, error) {
	s := &Session{
		ID:       uuid.NewString(),
		strategy: opts.Strategy,
		delay:    opts.AdvanceDelay,
		now:      opts.Now,
	}
	if s.strategy == nil {
		s.strategy = layout.Formula{}
	}
	if s.delay == 0 {
		s.delay = DefaultAdvanceDelay
	}
	if s.now == nil {
		s.now = time.Now
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	s.log = logger.With().Str("session", s.ID).Logger()

	level := opts.Level
	if level == 0 {
		level = layout.MinLevel
	}

	// Initialize first game
	if err := s.NewGame(level); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("layout", s.strategy.Name()).
		Int64("seed", seed).
		Msg("session started")
	return s, nil
}

// NewGame deals a fresh board for level. On error the current game is kept.
// Any pending advance is dropped.
func (s *Session) NewGame(level int) error {
	if level < layout.MinLevel || level > layout.MaxLevel {
		return fmt.Errorf("level %d: %w", level, ErrInvalidLevel)
	}

	g, err := NewGame(s.strategy, level, s.rng)
	if err != nil {
		s.log.Error().Err(err).Int("level", level).Msg("could not start level")
		return err
	}

	s.CurrentGame = g
	s.level = level
	s.generation++
	s.pending = nil

	ev := s.log.Info().
		Int("level", level).
		Uint64("generation", s.generation).
		Str("layout", g.Layout).
		Int("tiles", g.State.Board.Len())
	if g.Fallback {
		ev = ev.Bool("fallback", true)
	}
	ev.Msg("level started")
	return nil
}

// Activate forwards a click to the current game. Clearing the board
// schedules the next level; see Pending.
func (s *Session) Activate(id int) state.Feedback {
	if s.CurrentGame == nil {
		return state.Feedback{}
	}

	if s.CurrentGame.IsWon() {
		return s.CurrentGame.State.Feedback
	}
	fb := s.CurrentGame.HandleActivate(id)

	switch fb.Kind {
	case state.Matched, state.LevelCleared:
		s.log.Debug().
			Int("tile", id).
			Int("remaining", s.CurrentGame.State.Board.Remaining()).
			Msg("pair removed")
	case state.Mismatch:
		s.log.Debug().Int("tile", id).Msg("tiles do not match")
	}

	if s.CurrentGame.IsWon() {
		s.pending = &Advance{
			Generation: s.generation,
			Level:      s.level + 1,
			Due:        s.now().Add(s.delay),
		}
		s.log.Info().
			Int("level", s.level).
			Time("advance_at", s.pending.Due).
			Msg("level cleared")
	}
	return fb
}

// Pending returns the scheduled advance, if any.
func (s *Session) Pending() (Advance, bool) {
	if s.pending == nil {
		return Advance{}, false
	}
	return *s.pending, true
}

// AdvanceLevel deals the next level if gen matches the pending advance.
// Advances scheduled before a NewGame or CancelAdvance are ignored. The
// advance is consumed even when the next level cannot be dealt, e.g. past
// layout.MaxLevel; the cleared board then stays up.
func (s *Session) AdvanceLevel(gen uint64) bool {
	if s.pending == nil || s.pending.Generation != gen || gen != s.generation {
		s.log.Debug().
			Uint64("generation", gen).
			Uint64("current", s.generation).
			Msg("stale advance ignored")
		return false
	}
	next := s.pending.Level
	s.pending = nil
	return s.NewGame(next) == nil
}

// Tick advances when the pending advance is due at now.
func (s *Session) Tick(now time.Time) bool {
	if s.pending == nil || now.Before(s.pending.Due) {
		return false
	}
	return s.AdvanceLevel(s.pending.Generation)
}

func (s *Session) CancelAdvance() {
	s.pending = nil
}

// TileView is a live tile as the renderer sees it.
type TileView struct {
	board.Tile
	Free     bool
	Covered  bool // a live tile rests on it
	Selected bool
}

// VisibleTiles returns the live tiles of the current board in draw order.
func (s *Session) VisibleTiles() []TileView {
	if s.CurrentGame == nil {
		return nil
	}
	st := s.CurrentGame.State
	tiles := st.Board.Visible()
	views := make([]TileView, len(tiles))
	for i, t := range tiles {
		views[i] = TileView{
			Tile:     t,
			Free:     st.Board.IsFree(t.ID),
			Covered:  st.Board.IsCovered(t.ID),
			Selected: st.IsSelected(t.ID),
		}
	}
	return views
}

// IsFree reports whether tile id can be selected on the current board.
func (s *Session) IsFree(id int) bool {
	return s.CurrentGame != nil && s.CurrentGame.State.Board.IsFree(id)
}

// Origin returns the top-left corner of the current board, removed tiles
// included, so a renderer's frame does not move as tiles go.
func (s *Session) Origin() (x, y float64) {
	if s.CurrentGame == nil {
		return 0, 0
	}
	for i, t := range s.CurrentGame.State.Board.Tiles() {
		if i == 0 {
			x, y = t.X, t.Y
			continue
		}
		x, y = min(x, t.X), min(y, t.Y)
	}
	return x, y
}

// Counts returns the live and total tile counts and the number of pairs that
// can be played now.
func (s *Session) Counts() (remaining, total, matches int) {
	if s.CurrentGame == nil {
		return 0, 0, 0
	}
	b := s.CurrentGame.State.Board
	return b.Remaining(), b.Len(), b.AvailableMatches()
}

func (s *Session) Won() bool {
	return s.CurrentGame != nil && s.CurrentGame.IsWon()
}

func (s *Session) Feedback() state.Feedback {
	if s.CurrentGame == nil {
		return state.Feedback{}
	}
	return s.CurrentGame.State.Feedback
}

func (s *Session) Level() int         { return s.level }
func (s *Session) Generation() uint64 { return s.generation }

// SelectedID returns the held tile id or state.NoSelection.
func (s *Session) SelectedID() int {
	if s.CurrentGame == nil {
		return state.NoSelection
	}
	return s.CurrentGame.State.Selected
}

// LayoutName names the layout the current board was dealt from. It differs
// from the requested strategy after a fallback deal.
func (s *Session) LayoutName() string {
	if s.CurrentGame == nil {
		return s.strategy.Name()
	}
	return s.CurrentGame.Layout
}
