package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Dulani/Mahjong-Solitaire/internal/board"
	"github.com/Dulani/Mahjong-Solitaire/internal/game"
	"github.com/Dulani/Mahjong-Solitaire/internal/layout"
	"github.com/Dulani/Mahjong-Solitaire/internal/state"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boldStyle   = lipgloss.NewStyle().Bold(true)

	suitColors = map[board.Suit]lipgloss.Color{
		board.Characters: lipgloss.Color("9"),
		board.Bamboo:     lipgloss.Color("10"),
		board.Circles:    lipgloss.Color("12"),
	}
	// Lower layers are darker
	layerShades = []lipgloss.Color{"236", "238", "240", "242", "244", "246"}
)

// A half tile is two terminal columns by one row.
const (
	halfTileCols = 2
	tileCols     = 2 * halfTileCols
	tileRows     = 2
)

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Select                key.Binding
	NextLevel, PrevLevel  key.Binding
	Redeal                key.Binding
	Help                  key.Binding
	Quit                  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Redeal, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Select, k.Redeal},
		{k.NextLevel, k.PrevLevel},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	Select:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select tile")),
	NextLevel: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "next level")),
	PrevLevel: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "previous level")),
	Redeal:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "redeal")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

type LocalState struct {
	Session *game.Session
	Cursor  int
	Notice  string // last error from a level change

	help      help.Model
	scheduled uint64 // generation whose advance timer is running
}

// advanceMsg fires when a cleared board's delay has passed.
type advanceMsg struct {
	generation uint64
}

func initialModel(opts game.Options) (*LocalState, error) {
	sess, err := game.NewSession(opts)
	if err != nil {
		return nil, err
	}

	s := &LocalState{
		Session: sess,
		help:    help.New(),
	}
	s.resetCursor()
	return s, nil
}

func (s *LocalState) Init() tea.Cmd {
	return nil
}

func (s *LocalState) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if s.Session.AdvanceLevel(msg.generation) {
			s.resetCursor()
		}
	case tea.WindowSizeMsg:
		s.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return s, tea.Quit
		case key.Matches(msg, keys.Help):
			s.help.ShowAll = !s.help.ShowAll
		case key.Matches(msg, keys.Up):
			s.moveCursor(0, -1)
		case key.Matches(msg, keys.Down):
			s.moveCursor(0, 1)
		case key.Matches(msg, keys.Left):
			s.moveCursor(-1, 0)
		case key.Matches(msg, keys.Right):
			s.moveCursor(1, 0)
		case key.Matches(msg, keys.Select):
			s.Session.Activate(s.Cursor)
			return s, s.scheduleAdvance()
		case key.Matches(msg, keys.NextLevel):
			s.changeLevel(s.Session.Level() + 1)
		case key.Matches(msg, keys.PrevLevel):
			s.changeLevel(s.Session.Level() - 1)
		case key.Matches(msg, keys.Redeal):
			s.changeLevel(s.Session.Level())
		}
	}

	return s, nil
}

// scheduleAdvance starts the timer for a newly cleared board.
func (s *LocalState) scheduleAdvance() tea.Cmd {
	adv, ok := s.Session.Pending()
	if !ok || adv.Generation == s.scheduled {
		return nil
	}
	s.scheduled = adv.Generation
	return tea.Tick(time.Until(adv.Due), func(time.Time) tea.Msg {
		return advanceMsg{generation: adv.Generation}
	})
}

func (s *LocalState) changeLevel(level int) {
	if err := s.Session.NewGame(level); err != nil {
		s.Notice = err.Error()
		return
	}
	s.Notice = ""
	s.resetCursor()
}

// reachable returns the live tiles nothing rests on.
func (s *LocalState) reachable() []game.TileView {
	var out []game.TileView
	for _, t := range s.Session.VisibleTiles() {
		if !t.Covered {
			out = append(out, t)
		}
	}
	return out
}

func (s *LocalState) resetCursor() {
	top := s.reachable()
	for _, t := range top {
		if t.Free {
			s.Cursor = t.ID
			return
		}
	}
	if len(top) > 0 {
		s.Cursor = top[0].ID
	}
}

func (s *LocalState) moveCursor(dx, dy float64) {
	top := s.reachable()
	i := slices.IndexFunc(top, func(t game.TileView) bool { return t.ID == s.Cursor })
	if i < 0 {
		s.resetCursor()
		return
	}
	if next, ok := nearest(top, top[i], dx, dy); ok {
		s.Cursor = next.ID
	}
}

// nearest picks the tile closest to from in direction (dx, dy), favoring
// tiles in line with it.
func nearest(tiles []game.TileView, from game.TileView, dx, dy float64) (game.TileView, bool) {
	var best game.TileView
	bestScore := math.MaxFloat64
	for _, t := range tiles {
		if t.ID == from.ID {
			continue
		}
		ox, oy := t.X-from.X, t.Y-from.Y
		along := ox*dx + oy*dy
		if along <= 0 {
			continue
		}
		across := math.Abs(ox*dy) + math.Abs(oy*dx)
		if score := along + 2*across; score < bestScore {
			best, bestScore = t, score
		}
	}
	return best, bestScore < math.MaxFloat64
}

type cell struct {
	r     rune
	style lipgloss.Style
	set   bool
}

func (s *LocalState) RenderBoard() string {
	tiles := s.Session.VisibleTiles()
	if len(tiles) == 0 {
		return ""
	}

	// The origin covers removed tiles too, so the board does not shift.
	minX, minY := s.Session.Origin()
	pos := func(t game.TileView) (int, int) {
		col := int(math.Round((t.X-minX)/(layout.TileWidth/2))) * halfTileCols
		row := int(math.Round((t.Y - minY) / (layout.TileHeight / 2)))
		return col, row
	}
	maxCol, maxRow := 0, 0
	for _, t := range tiles {
		col, row := pos(t)
		maxCol, maxRow = max(maxCol, col+tileCols), max(maxRow, row+tileRows)
	}

	grid := make([][]cell, maxRow)
	for i := range grid {
		grid[i] = make([]cell, maxCol)
	}

	for _, t := range tiles {
		col, row := pos(t)
		style := lipgloss.NewStyle().
			Foreground(suitColors[t.Face.Suit()]).
			Background(layerShades[min(t.Layer, len(layerShades)-1)])
		switch {
		case t.Selected:
			style = style.Reverse(true).Bold(true)
		case !t.Free:
			style = style.Faint(true)
		}
		if t.ID == s.Cursor {
			style = style.Underline(true).Bold(true)
		}

		label := []rune(t.Face.Short())
		top := []rune{'┌', label[0], label[1], '┐'}
		bottom := []rune{'└', '─', '─', '┘'}
		for i := 0; i < tileCols; i++ {
			grid[row][col+i] = cell{r: top[i], style: style, set: true}
			grid[row+1][col+i] = cell{r: bottom[i], style: style, set: true}
		}
	}

	var b strings.Builder
	for i, line := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range line {
			if !c.set {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
	}
	return b.String()
}

func (s *LocalState) View() string {
	// 1. Banner
	banner := boldStyle.Render(fmt.Sprintf("┃ MAHJONG | LEVEL: %d | LAYOUT: %s", s.Session.Level(), s.Session.LayoutName()))

	// 2. Board
	borderStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.ThickBorder())
	display := banner + "\n" + borderStyle.Render(s.RenderBoard())

	// 3. Status line
	remaining, total, matches := s.Session.Counts()
	statusLine := fmt.Sprintf("TILES: %d/%d | MATCHES: %d", remaining, total, matches)
	display += "\n" + statusStyle.Render(statusLine)

	fb := s.Session.Feedback()
	switch fb.Kind {
	case state.LevelCleared, state.Matched:
		display += "\n" + greenStyle.Render(fb.String())
	case state.NotFree, state.Mismatch:
		display += "\n" + redStyle.Render(fb.String())
	case state.Prompted:
		display += "\n" + fb.String()
	}
	if adv, ok := s.Session.Pending(); ok {
		display += "\n" + fmt.Sprintf("Level %d starts shortly...", adv.Level)
	} else if !s.Session.Won() && matches == 0 {
		display += "\n" + redStyle.Render("No matches available. Press r to redeal.")
	}
	if s.Notice != "" {
		display += "\n" + redStyle.Render(s.Notice)
	}

	return display + "\n\n" + s.help.View(keys)
}

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*i = strictIntFlag(v)
	return nil
}

func (i *strictIntFlag) IsBoolFlag() bool { return true }

// pathsFlag collects repeated path flags.
type pathsFlag []string

func (p *pathsFlag) String() string {
	return strings.Join(*p, ",")
}

func (p *pathsFlag) Set(s string) error {
	if s == "" {
		return fmt.Errorf("path required")
	}
	*p = append(*p, s)
	return nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// newLogger writes to LOG_FILE when set. The terminal belongs to the UI, so
// there is no console logging.
func newLogger() (zerolog.Logger, func(), error) {
	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	path := os.Getenv("LOG_FILE")
	if path == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("opening log file: %w", err)
	}
	logger := zerolog.New(f).Level(lvl).With().Timestamp().Logger()
	return logger, func() { f.Close() }, nil
}

// errUsage marks command-line mistakes; usage has already been printed.
var errUsage = errors.New("invalid usage")

func main() {
	if err := run(os.Args[0], os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(name string, args []string) error {
	_ = godotenv.Load()

	var level strictIntFlag = layout.MinLevel
	var layoutName string
	var layoutFiles pathsFlag
	var seed int64
	var delay time.Duration

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Var(&level, "level", "Starting level (1 to 50)")
	fs.Var(&level, "l", "Starting level (shorthand)")
	fs.StringVar(&layoutName, "layout", "formula", "Layout: formula, turtle, or the NAME of a layout file")
	fs.Var(&layoutFiles, "layout-file", "Load layouts from a file or directory (repeatable)")
	fs.Int64Var(&seed, "seed", 0, "Random seed for dealing faces (0 picks one)")
	fs.DurationVar(&delay, "delay", game.DefaultAdvanceDelay, "Pause before the next level is dealt")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "Usage: %s [options] [layout files...]\n", name)
		fmt.Fprintf(out, "\nOptions:\n")
		fmt.Fprintf(out, "    -l, --level=N          Starting level, %d to %d (default %d)\n", layout.MinLevel, layout.MaxLevel, layout.MinLevel)
		fmt.Fprintf(out, "        --layout=NAME      formula, turtle, or a loaded layout NAME\n")
		fmt.Fprintf(out, "        --layout-file=PATH Load layouts from a file or directory\n")
		fmt.Fprintf(out, "        --seed=N           Random seed for dealing faces\n")
		fmt.Fprintf(out, "        --delay=2s         Pause before the next level\n")
		fmt.Fprintf(out, "    -h, --help             Show this help message\n")
		fmt.Fprintf(out, "\nEnvironment: LOG_LEVEL, LOG_FILE, MAHJONG_LAYOUT_DIR\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	if int(level) < layout.MinLevel || int(level) > layout.MaxLevel {
		fmt.Fprintf(fs.Output(), "Invalid level %d: %v\n", int(level), game.ErrInvalidLevel)
		fs.Usage()
		return errUsage
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closeLog()

	paths := append([]string(layoutFiles), fs.Args()...)
	if dir := os.Getenv("MAHJONG_LAYOUT_DIR"); dir != "" {
		paths = append(paths, dir)
	}
	presets, err := layout.LoadPresets(paths)
	if err != nil {
		logger.Error().Err(err).Msg("loading layouts")
		return fmt.Errorf("loading layouts: %w", err)
	}
	strategy, err := layout.Lookup(layoutName, presets)
	if err != nil {
		logger.Error().Err(err).Msg("resolving layout")
		return err
	}
	logger.Debug().Int("presets", len(presets)).Str("layout", strategy.Name()).Msg("layouts loaded")

	model, err := initialModel(game.Options{
		Level:        int(level),
		Strategy:     strategy,
		Seed:         seed,
		AdvanceDelay: delay,
		Logger:       &logger,
	})
	if err != nil {
		return fmt.Errorf("initializing model: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running the program: %w", err)
	}
	return nil
}
