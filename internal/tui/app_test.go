package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muurk/hatui/internal/brightness"
	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/entity/entitytest"
)

const refreshEvery = time.Duration(config.DefaultRefreshInterval) * time.Second

func TestSeedDashboard(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	assert.Equal(t, "Default Dashboard (1/1)", h.m.Title())
	assert.Equal(t, ModeView, h.m.Mode())
	assert.Equal(t, "Connected to Home Assistant!", h.m.Notice())

	tile := h.m.Grid().GetAt(0, 0)
	require.NotNil(t, tile)
	assert.Equal(t, "sun.sun", tile.EntityID)
	assert.Equal(t, "above_horizon", tile.RemoteState)
	assert.Equal(t, "Sun", tile.FriendlyName)
	assert.Equal(t, 1, h.ticks.count(refreshEvery), "refresh timer armed once")
}

func TestConnectionFailureNotice(t *testing.T) {
	h := newHarness(t, nil)
	h.ha.connErr = errors.New("connection refused")
	h.init()

	assert.Equal(t, "Failed to connect to Home Assistant: connection refused", h.m.Notice())
}

func TestNoticeExpires(t *testing.T) {
	h := newHarness(t, nil)
	h.init()
	require.NotEmpty(t, h.m.Notice())

	h.fire(NoticeDuration)
	assert.Empty(t, h.m.Notice())
}

func TestPeriodicRefresh(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	h.ha.set(entitytest.State("sun.sun", "below_horizon", nil))
	h.fire(refreshEvery)

	assert.Equal(t, "below_horizon", h.m.Grid().GetAt(0, 0).RemoteState)
	assert.Equal(t, 1, h.ticks.count(refreshEvery), "timer re-armed")
}

func TestManualRefresh(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	h.ha.set(entitytest.State("sun.sun", "below_horizon", nil))
	h.press(runes("r"))

	assert.Equal(t, "below_horizon", h.m.Grid().GetAt(0, 0).RemoteState)
	assert.Equal(t, "Refreshed all entities!", h.m.Notice())
}

func TestRefreshKeepsUnknownEntity(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.init()

	// the server has no light.kitchen, so the tile keeps its initial state
	tile := h.m.Grid().GetAt(0, 1)
	require.NotNil(t, tile)
	assert.Equal(t, entity.StateUnknown, tile.RemoteState)
}

func TestLightToggleIsDebounced(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102))
	h.ha.On("CallService", mock.Anything, "light", "turn_off", "light.kitchen", mock.Anything).Return(nil)
	h.init()
	h.press(right)

	h.press(space)
	h.clock.advance(100 * time.Millisecond)
	h.press(space)
	h.ha.AssertNumberOfCalls(t, "CallService", 1)

	h.clock.advance(500 * time.Millisecond)
	h.press(space)
	h.ha.AssertNumberOfCalls(t, "CallService", 2)
}

func TestToggleFailureRollsBack(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102))
	h.ha.On("CallService", mock.Anything, "light", "turn_off", "light.kitchen", mock.Anything).Return(errors.New("boom"))
	h.ha.On("Toggle", mock.Anything, "light.kitchen").Return(errors.New("boom"))
	h.init()
	h.press(right)

	model, cmd := h.m.Update(space)
	h.m = model.(Model)
	tile := h.m.Grid().GetAt(0, 1)
	assert.Equal(t, "off", tile.RemoteState, "flipped before the call returns")

	for _, msg := range run(cmd) {
		h.send(msg)
	}
	assert.Equal(t, "on", tile.RemoteState)
	assert.Contains(t, h.m.Notice(), "Cannot toggle light.kitchen")
}

func TestToggleVerifiesState(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102))
	h.ha.On("CallService", mock.Anything, "light", "turn_off", "light.kitchen", mock.Anything).
		Run(func(mock.Arguments) { h.ha.set(kitchen("off", 0)) }).
		Return(nil)
	h.init()
	h.press(right, space)

	assert.Equal(t, "off", h.m.Grid().GetAt(0, 1).RemoteState)
	h.ha.AssertExpectations(t)
}

func TestRunScript(t *testing.T) {
	h := newHarness(t, func(t *testing.T, s *config.Store) {
		require.NoError(t, s.AddEntity("script.morning", 1, 0, config.TypeAuto))
	})
	h.ha.set(entitytest.State("script.morning", "off", nil))
	h.ha.On("CallService", mock.Anything, "script", "turn_on", "script.morning", mock.Anything).Return(nil).Once()
	h.init()

	model, cmd := h.m.Update(down)
	h.m = model.(Model)
	require.Nil(t, cmd)
	model, cmd = h.m.Update(space)
	h.m = model.(Model)
	assert.Equal(t, "off", h.m.Grid().GetAt(1, 0).RemoteState, "scripts are not flipped")

	for _, msg := range run(cmd) {
		h.send(msg)
	}
	h.ha.AssertExpectations(t)
}

func TestToggleGenericSwitch(t *testing.T) {
	h := newHarness(t, func(t *testing.T, s *config.Store) {
		require.NoError(t, s.AddEntity("switch.fan", 1, 1, config.TypeAuto))
	})
	h.ha.set(entitytest.State("switch.fan", "off", nil))
	h.ha.On("Toggle", mock.Anything, "switch.fan").
		Run(func(mock.Arguments) { h.ha.set(entitytest.State("switch.fan", "on", nil)) }).
		Return(nil).Once()
	h.init()

	h.press(down, right, space)

	assert.Equal(t, "on", h.m.Grid().GetAt(1, 1).RemoteState)
	h.ha.AssertExpectations(t)
}

func TestReadOnlyTileCannotToggle(t *testing.T) {
	h := newHarness(t, func(t *testing.T, s *config.Store) {
		require.NoError(t, s.AddEntity("sensor.temp", 1, 0, config.TypeAuto))
	})
	h.ha.set(entitytest.State("sensor.temp", "21.5", map[string]any{"unit_of_measurement": "°C"}))
	h.init()

	h.press(down, space)

	assert.Equal(t, "Cannot toggle sensor.temp", h.m.Notice())
	assert.Equal(t, "21.5", h.m.Grid().GetAt(1, 0).RemoteState)
	h.ha.AssertNotCalled(t, "Toggle", mock.Anything, mock.Anything)
}

func TestBrightnessBurstCommitsOnce(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102)) // 40%
	h.ha.On("CallService", mock.Anything, "light", "turn_on", "light.kitchen",
		mock.MatchedBy(func(extras map[string]any) bool { return extras["brightness"] == 178 })).
		Run(func(mock.Arguments) { h.ha.set(kitchen("on", 178)) }).
		Return(nil).Once()
	h.init()
	h.press(right)

	for i := 0; i < 6; i++ {
		h.press(ctrlUp)
		h.clock.advance(100 * time.Millisecond)
	}

	tile := h.m.Grid().GetAt(0, 1)
	pct, staged := tile.DisplayBrightness()
	assert.Equal(t, 70, pct)
	assert.True(t, staged)
	assert.Equal(t, "State: on (70%)*", tile.StateText())
	assert.Contains(t, h.m.Status(), "Ctrl+↑↓: Brightness (70%)")
	h.ha.AssertNumberOfCalls(t, "CallService", 0)
	assert.Equal(t, 1, h.ticks.count(brightness.IdleDelay), "one timer for the whole burst")

	h.fire(brightness.IdleDelay)

	h.ha.AssertExpectations(t)
	assert.Nil(t, tile.StagedBrightness)
	pct, staged = tile.DisplayBrightness()
	assert.Equal(t, 70, pct)
	assert.False(t, staged)
	assert.Equal(t, "State: on (70%)", tile.StateText())
}

func TestBrightnessPressesAreDebounced(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102))
	h.init()
	h.press(right)

	h.press(ctrlUp)
	h.clock.advance(10 * time.Millisecond)
	h.press(ctrlUp)

	pct, _ := h.m.Grid().GetAt(0, 1).DisplayBrightness()
	assert.Equal(t, 45, pct)

	// the other direction has its own window
	h.press(ctrlDown)
	pct, _ = h.m.Grid().GetAt(0, 1).DisplayBrightness()
	assert.Equal(t, 40, pct)
}

func TestBrightnessOnOffLightTurnsOnFirst(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("off", 0))
	h.ha.On("CallService", mock.Anything, "light", "turn_on", "light.kitchen", mock.Anything).Return(nil).Twice()
	h.init()
	h.press(right, ctrlUp)

	h.fire(brightness.IdleDelay)

	h.ha.AssertExpectations(t)
	calls := h.ha.Calls
	require.Len(t, calls, 2)
	assert.Nil(t, calls[0].Arguments.Get(4))
	assert.Equal(t, map[string]any{"brightness": 13}, calls[1].Arguments.Get(4))
}

func TestBrightnessFailureClearsStage(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 102))
	h.ha.On("CallService", mock.Anything, "light", "turn_on", "light.kitchen", mock.Anything).Return(errors.New("boom"))
	h.init()
	h.press(right, ctrlUp)

	h.fire(brightness.IdleDelay)

	tile := h.m.Grid().GetAt(0, 1)
	assert.Nil(t, tile.StagedBrightness)
	assert.Equal(t, "Cannot adjust brightness: boom", h.m.Notice())
}

func TestBrightnessIgnoredForReadOnly(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	h.press(ctrlUp)

	assert.Nil(t, h.m.Grid().GetAt(0, 0).StagedBrightness)
	assert.Zero(t, h.ticks.count(brightness.IdleDelay))
}

func withUpstairs(t *testing.T, s *config.Store) {
	t.Helper()
	withKitchen(t, s)
	_, err := s.AddDashboard("Upstairs", 2, 2, 10)
	require.NoError(t, err)
}

func TestSwitchDashboardDiscardsStaged(t *testing.T) {
	h := newHarness(t, withUpstairs)
	h.ha.set(kitchen("on", 102))
	h.init()
	h.press(right, ctrlUp)

	h.press(ctrlRight)
	assert.Equal(t, "Upstairs (2/2)", h.m.Title())
	assert.Equal(t, "Switched to Upstairs", h.m.Notice())
	assert.Zero(t, h.m.Grid().Len())
	assert.Equal(t, 1, h.ticks.count(10*time.Second), "timer restarted with the new interval")

	// the burst timer from the old dashboard is stale now
	h.fire(brightness.IdleDelay)
	h.ha.AssertNotCalled(t, "CallService", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	h.press(ctrlLeft)
	assert.Equal(t, "Default Dashboard (1/2)", h.m.Title())
	tile := h.m.Grid().GetAt(0, 1)
	require.NotNil(t, tile)
	assert.Nil(t, tile.StagedBrightness)
	assert.Equal(t, "on", tile.RemoteState)
}

func TestSwitchDuringRefreshSweepsNewDashboard(t *testing.T) {
	h := newHarness(t, func(t *testing.T, s *config.Store) {
		_, err := s.AddDashboard("Upstairs", 2, 2, 10)
		require.NoError(t, err)
		require.NoError(t, s.SelectDashboard(1))
		require.NoError(t, s.AddEntity("light.kitchen", 0, 0, config.TypeAuto))
		require.NoError(t, s.SelectDashboard(0))
	})
	h.ha.set(kitchen("on", 178))
	h.init()

	// leave the manual refresh of the first dashboard running
	model, pending := h.m.Update(runes("r"))
	h.m = model.(Model)
	require.NotNil(t, pending)

	h.press(ctrlRight)
	assert.Equal(t, "Upstairs (2/2)", h.m.Title())
	tile := h.m.Grid().GetAt(0, 0)
	require.NotNil(t, tile)
	assert.Equal(t, "on", tile.RemoteState, "the new dashboard is swept at once")

	for _, msg := range run(pending) {
		h.send(msg)
	}
	assert.Equal(t, "Switched to Upstairs", h.m.Notice(), "the old refresh is not reported")
	assert.Equal(t, "on", h.m.Grid().GetAt(0, 0).RemoteState)
}

func TestSwitchWithSingleDashboard(t *testing.T) {
	h := newHarness(t, nil)
	h.init()
	before := h.m.Notice()

	h.press(ctrlRight)

	assert.Equal(t, "Default Dashboard (1/1)", h.m.Title())
	assert.Equal(t, before, h.m.Notice())
}

func TestCursorStaysInBounds(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	h.press(up, left)
	assert.Equal(t, config.Position{Row: 0, Col: 0}, h.m.Cursor())

	h.press(down, down, down, right, right, right)
	assert.Equal(t, config.Position{Row: 2, Col: 2}, h.m.Cursor())
}

func TestAddNeedsEditMode(t *testing.T) {
	h := newHarness(t, nil)
	h.init()

	h.press(runes("a"))

	assert.Equal(t, ModeView, h.m.Mode())
	assert.Equal(t, "Enter edit mode first (press 'e')", h.m.Notice())
}

func TestQuit(t *testing.T) {
	h := newHarness(t, nil)

	_, cmd := h.m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = h.m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewRendersDashboard(t *testing.T) {
	h := newHarness(t, withKitchen)
	h.ha.set(kitchen("on", 255))
	h.init()
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := h.m.View()
	assert.Contains(t, out, "Default Dashboard (1/1)")
	assert.Contains(t, out, "Kitchen")
	assert.Contains(t, out, "State: on (100%)")
	assert.Contains(t, out, "Press E to edit")
	assert.Contains(t, out, "[VIEW] Sun")
}
