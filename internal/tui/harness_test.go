package tui

import (
	"context"
	"maps"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity/entitytest"
	"github.com/muurk/hatui/internal/homeassistant"
)

// fakeHA serves entity states from a map. Service calls go to the embedded
// mock so tests can set expectations and count them.
type fakeHA struct {
	entitytest.MockRemote

	mu      sync.Mutex
	states  map[string]*homeassistant.State
	connErr error
	listErr error
}

func newFakeHA() *fakeHA {
	return &fakeHA{states: map[string]*homeassistant.State{}}
}

func (f *fakeHA) set(states ...*homeassistant.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range states {
		f.states[s.EntityID] = s
	}
}

func copyState(s *homeassistant.State) *homeassistant.State {
	cp := *s
	cp.Attributes = maps.Clone(s.Attributes)
	return &cp
}

func (f *fakeHA) GetState(_ context.Context, entityID string) (*homeassistant.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[entityID]
	if !ok {
		return nil, nil
	}
	return copyState(s), nil
}

func (f *fakeHA) GetAllStates(context.Context) ([]homeassistant.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]homeassistant.State, 0, len(f.states))
	for _, s := range f.states {
		out = append(out, *copyState(s))
	}
	return out, nil
}

func (f *fakeHA) TestConnection(context.Context) error {
	return f.connErr
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) advance(d time.Duration) { c.now = c.now.Add(d) }

type timer struct {
	d  time.Duration
	fn func(time.Time) tea.Msg
}

type fakeTicks struct {
	armed []timer
}

func (f *fakeTicks) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	f.armed = append(f.armed, timer{d: d, fn: fn})
	return nil
}

// take removes the most recently armed timer with duration d.
func (f *fakeTicks) take(t *testing.T, d time.Duration) tea.Msg {
	t.Helper()
	for i := len(f.armed) - 1; i >= 0; i-- {
		if f.armed[i].d == d {
			next := f.armed[i]
			f.armed = append(f.armed[:i], f.armed[i+1:]...)
			return next.fn(time.Now())
		}
	}
	require.FailNow(t, "no timer armed", "duration %v", d)
	return nil
}

func (f *fakeTicks) count(d time.Duration) int {
	n := 0
	for _, a := range f.armed {
		if a.d == d {
			n++
		}
	}
	return n
}

// run executes cmd and everything it batches, returning the messages.
// Spinner frames are dropped; they would re-arm forever.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	}
	return []tea.Msg{msg}
}

type harness struct {
	t     *testing.T
	m     Model
	ha    *fakeHA
	store *config.Store
	ticks *fakeTicks
	clock *clock
}

// newHarness opens a seeded store in a temp dir, lets setup adjust it and
// builds the model against a fake server that knows sun.sun.
func newHarness(t *testing.T, setup func(t *testing.T, s *config.Store)) *harness {
	t.Helper()

	store, err := config.Open(filepath.Join(t.TempDir(), "hatui", "config.yaml"))
	require.NoError(t, err)
	if setup != nil {
		setup(t, store)
	}

	ha := newFakeHA()
	ha.set(entitytest.State("sun.sun", "above_horizon", map[string]any{"friendly_name": "Sun"}))

	h := &harness{
		t:     t,
		ha:    ha,
		store: store,
		ticks: &fakeTicks{},
		clock: &clock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.m = New(Options{
		Store:   store,
		Backend: ha,
		Now:     h.clock.Now,
		Tick:    h.ticks.tick,
		Sleep:   func(context.Context, time.Duration) error { return nil },
	})
	t.Cleanup(func() { h.m.Shutdown(time.Second) })
	return h
}

// init runs the model's startup commands.
func (h *harness) init() {
	h.t.Helper()
	for _, msg := range run(h.m.Init()) {
		h.send(msg)
	}
}

// send feeds msg to Update and keeps feeding the results of the returned
// commands until nothing is left.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(h.t, steps, 200, "update loop did not settle")
		next := queue[0]
		queue = queue[1:]

		model, cmd := h.m.Update(next)
		h.m = model.(Model)
		queue = append(queue, run(cmd)...)
	}
}

func (h *harness) press(keys ...tea.KeyMsg) {
	h.t.Helper()
	for _, k := range keys {
		h.send(k)
	}
}

// typeText sends s one rune at a time.
func (h *harness) typeText(s string) {
	h.t.Helper()
	for _, r := range s {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// fire delivers the most recent timer armed for d.
func (h *harness) fire(d time.Duration) {
	h.t.Helper()
	h.send(h.ticks.take(h.t, d))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	up        = tea.KeyMsg{Type: tea.KeyUp}
	down      = tea.KeyMsg{Type: tea.KeyDown}
	left      = tea.KeyMsg{Type: tea.KeyLeft}
	right     = tea.KeyMsg{Type: tea.KeyRight}
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
	del       = tea.KeyMsg{Type: tea.KeyDelete}
	space     = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	ctrlUp    = tea.KeyMsg{Type: tea.KeyCtrlUp}
	ctrlDown  = tea.KeyMsg{Type: tea.KeyCtrlDown}
	ctrlLeft  = tea.KeyMsg{Type: tea.KeyCtrlLeft}
	ctrlRight = tea.KeyMsg{Type: tea.KeyCtrlRight}
	ctrlN     = tea.KeyMsg{Type: tea.KeyCtrlN}
	f2        = tea.KeyMsg{Type: tea.KeyF2}
)

// withKitchen adds a dimmable light next to the seed entity.
func withKitchen(t *testing.T, s *config.Store) {
	t.Helper()
	require.NoError(t, s.AddEntity("light.kitchen", 0, 1, config.TypeAuto))
}

func kitchen(state string, brightness float64) *homeassistant.State {
	return entitytest.State("light.kitchen", state, map[string]any{
		"friendly_name":      "Kitchen",
		"brightness":         brightness,
		"supported_features": 1.0,
	})
}

// reloadDoc reads the store's file back from disk.
func (h *harness) reloadDoc() *config.Document {
	h.t.Helper()
	doc, err := config.Load(h.store.Path())
	require.NoError(h.t, err)
	return doc
}
