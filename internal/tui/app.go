package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/hatui/internal/brightness"
	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/dashboard"
	"github.com/muurk/hatui/internal/debounce"
	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/logging"
	"github.com/muurk/hatui/internal/refresh"
)

// Mode is the interaction state of the dashboard
type Mode int

const (
	ModeView Mode = iota
	ModeEditIdle
	ModeEditHolding
	ModeEditNaming
	ModeEditDashboards
	ModeEditAdding
)

func (m Mode) String() string {
	switch m {
	case ModeView:
		return "VIEW"
	case ModeEditIdle:
		return "EDIT_IDLE"
	case ModeEditHolding:
		return "EDIT_HOLDING"
	case ModeEditNaming:
		return "EDIT_NAMING"
	case ModeEditDashboards:
		return "EDIT_DASHBOARDS"
	case ModeEditAdding:
		return "EDIT_ADDING"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Editing reports whether the mode belongs to edit mode.
func (m Mode) Editing() bool {
	return m != ModeView
}

// NoticeDuration is how long a notification stays on screen
const NoticeDuration = 3 * time.Second

// Backend is the Home Assistant API used by the dashboard
type Backend interface {
	entity.Remote
	GetAllStates(ctx context.Context) ([]homeassistant.State, error)
	TestConnection(ctx context.Context) error
}

// Messages for async operations
type connectedMsg struct {
	err error
}

type toggleDoneMsg struct {
	entityID string
	typ      config.EntityType
	prev     string
	err      error
}

type brightnessFireMsg struct {
	gen uint64
}

type brightnessDoneMsg struct {
	entityID string
	pct      int
	err      error
}

type statesLoadedMsg struct {
	states []homeassistant.State
	err    error
}

type noticeExpiredMsg struct {
	id int
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarning
	noticeError
)

type notice struct {
	id    int
	text  string
	level noticeLevel
}

// Options configures a Model. Now, Tick and Sleep default to the real clock
// and timers.
type Options struct {
	Store   *config.Store
	Backend Backend

	Now   func() time.Time
	Tick  func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
	Sleep func(ctx context.Context, d time.Duration) error
}

// Model is the Bubble Tea model for the dashboard. All state changes happen
// in Update; REST calls run as tracked commands and report back as messages.
type Model struct {
	store   *config.Store
	backend Backend
	op      *entity.Operator
	sched   *refresh.Scheduler
	coal    *brightness.Coalescer
	gate    *debounce.Gate
	grid    *dashboard.Grid
	tick    func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

	mode     Mode
	cursor   config.Position
	held     *entity.Tile
	heldFrom config.Position

	browser browserModel
	names   nameEditorModel
	manager managerModel

	notice   notice
	noticeID int

	Width  int
	Height int

	Help      help.Model
	ViewKeys  viewKeyMap
	EditKeys  editKeyMap
	ModalKeys modalKeyMap
}

// New creates the dashboard model for the store's current dashboard.
func New(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}

	op := entity.NewOperator(opts.Backend)
	sched := refresh.New(op.Fetch)
	sched.Tick = tick
	if opts.Sleep != nil {
		op.Sleep = opts.Sleep
		sched.Sleep = opts.Sleep
	}

	m := Model{
		store:     opts.Store,
		backend:   opts.Backend,
		op:        op,
		sched:     sched,
		coal:      brightness.New(),
		gate:      debounce.NewGateWithClock(now),
		tick:      tick,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Help:      help.New(),
		ViewKeys:  newViewKeyMap(),
		EditKeys:  newEditKeyMap(),
		ModalKeys: newModalKeyMap(),
	}
	m.rebuildGrid()
	return m
}

// Init tests the connection, arms the refresh timer and sweeps once.
func (m Model) Init() tea.Cmd {
	ids := m.grid.EntityIDs()
	return tea.Batch(
		m.testConnection(),
		m.sched.Start(m.refreshInterval()),
		m.sched.Prime(ids),
	)
}

// Shutdown drains background REST work. Call it after the program exits.
func (m Model) Shutdown(timeout time.Duration) bool {
	return m.sched.Shutdown(timeout)
}

// Mode returns the interaction state.
func (m Model) Mode() Mode { return m.mode }

// Cursor returns the selected cell.
func (m Model) Cursor() config.Position { return m.cursor }

// Grid returns the grid of the active dashboard.
func (m Model) Grid() *dashboard.Grid { return m.grid }

// Notice returns the notification currently shown.
func (m Model) Notice() string { return m.notice.text }

// Title is "<name> (i/N)" for the active dashboard.
func (m Model) Title() string {
	return fmt.Sprintf("%s (%d/%d)", m.store.Current().Name, m.store.CurrentIndex()+1, m.store.Len())
}

// Status is the status line for the current state.
func (m Model) Status() string {
	return StatusLine(m.mode, m.cursorTile(), m.held)
}

func (m Model) testConnection() tea.Cmd {
	return m.sched.Go(func(ctx context.Context) tea.Msg {
		return connectedMsg{err: m.backend.TestConnection(ctx)}
	})
}

func (m Model) refreshInterval() time.Duration {
	return time.Duration(m.store.Current().RefreshInterval) * time.Second
}

func (m Model) cursorTile() *entity.Tile {
	return m.grid.GetAt(m.cursor.Row, m.cursor.Col)
}

// rebuildGrid replaces the grid with the store's current dashboard and clamps
// the cursor into it.
func (m *Model) rebuildGrid() {
	grid, skipped := dashboard.FromDashboard(m.store.Current())
	for _, b := range skipped {
		logging.Warn("Skipping binding that does not fit the grid",
			zap.String("entity", b.Entity),
			zap.String("position", b.Position.String()),
		)
	}
	m.grid = grid
	m.grid.SetEditMode(m.mode.Editing())
	m.cursor.Row = min(m.cursor.Row, grid.Rows()-1)
	m.cursor.Col = min(m.cursor.Col, grid.Cols()-1)
	m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
}

// loadDashboard switches the runtime to the store's current dashboard:
// staged brightness is discarded, the grid is rebuilt, the timer restarts
// with the new interval and a sweep runs at once.
func (m *Model) loadDashboard() tea.Cmd {
	m.coal.Discard()
	m.held = nil
	m.rebuildGrid()
	return tea.Batch(
		m.sched.Start(m.refreshInterval()),
		m.sched.Prime(m.grid.EntityIDs()),
	)
}

// notify shows text in the notification line until it expires.
func (m *Model) notify(level noticeLevel, text string) tea.Cmd {
	m.noticeID++
	m.notice = notice{id: m.noticeID, text: text, level: level}
	id := m.noticeID
	return m.tick(NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keyForce) {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case connectedMsg:
		if msg.err != nil {
			logging.Warn("Connection test failed", zap.Error(msg.err))
			return m, m.notify(noticeError, "Failed to connect to Home Assistant: "+homeassistant.ShortMessage(msg.err))
		}
		return m, m.notify(noticeInfo, "Connected to Home Assistant!")

	case refresh.TickMsg:
		return m, m.sched.HandleTick(msg, m.grid.EntityIDs())

	case refresh.SweepMsg:
		if !m.sched.HandleSweep(msg) {
			return m, nil
		}
		for _, r := range msg.Results {
			m.applyResult(r)
		}
		if msg.Manual {
			return m, m.notify(noticeInfo, "Refreshed all entities!")
		}
		return m, nil

	case refresh.VerifyMsg:
		m.applyResult(msg.Result)
		return m, nil

	case toggleDoneMsg:
		return m.handleToggleDone(msg)

	case brightnessFireMsg:
		return m.commitBrightness(msg)

	case brightnessDoneMsg:
		return m.handleBrightnessDone(msg)

	case noticeExpiredMsg:
		if msg.id == m.notice.id {
			m.notice = notice{}
		}
		return m, nil
	}

	return m.updateModal(msg)
}

// applyResult copies a fetched state into the tile if it is still on the grid.
func (m *Model) applyResult(r refresh.Result) {
	tile, _, ok := m.grid.Find(r.EntityID)
	if !ok {
		return
	}
	if r.Err != nil {
		tile.MarkError()
		return
	}
	tile.ApplyState(r.State)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeEditNaming, ModeEditDashboards, ModeEditAdding:
		return m.updateModal(msg)
	}

	if key.Matches(msg, keyHelp) {
		m.Help.ShowAll = !m.Help.ShowAll
		return m, nil
	}
	if key.Matches(msg, keyQuit) {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeView:
		return m.updateView(msg)
	case ModeEditIdle:
		return m.updateEditIdle(msg)
	case ModeEditHolding:
		return m.updateHolding(msg)
	}
	return m, nil
}

// updateModal routes messages to the open modal and applies its outcome.
func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.mode {
	case ModeEditAdding:
		m.browser, cmd = m.browser.Update(msg)
		if m.browser.done {
			return m.finishAdding(cmd)
		}
	case ModeEditNaming:
		m.names, cmd = m.names.Update(msg)
		if m.names.done {
			return m.finishNaming(cmd)
		}
	case ModeEditDashboards:
		m.manager, cmd = m.manager.Update(msg)
		if m.manager.closed {
			return m.finishDashboards(cmd)
		}
	}
	return m, cmd
}

// moveCursor moves the cursor within bounds.
func (m *Model) moveCursor(dRow, dCol int) bool {
	row, col := m.cursor.Row+dRow, m.cursor.Col+dCol
	if !m.grid.InBounds(row, col) {
		return false
	}
	m.cursor = config.Position{Row: row, Col: col}
	return true
}

func arrowDelta(msg tea.KeyMsg) (dRow, dCol int, ok bool) {
	switch {
	case key.Matches(msg, keyUp):
		return -1, 0, true
	case key.Matches(msg, keyDown):
		return 1, 0, true
	case key.Matches(msg, keyLeft):
		return 0, -1, true
	case key.Matches(msg, keyRight):
		return 0, 1, true
	}
	return 0, 0, false
}
