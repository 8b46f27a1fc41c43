package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/hatui/internal/brightness"
	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/debounce"
	"github.com/muurk/hatui/internal/entity"
	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/logging"
)

// updateView handles keys outside edit mode
func (m Model) updateView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dRow, dCol, ok := arrowDelta(msg); ok {
		if m.moveCursor(dRow, dCol) {
			m.grid.SetSelected(m.cursor.Row, m.cursor.Col)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.ViewKeys.Toggle):
		return m.toggle()

	case key.Matches(msg, m.ViewKeys.BrightnessUp):
		return m.stageBrightness("up", brightness.Step)

	case key.Matches(msg, m.ViewKeys.BrightnessDown):
		return m.stageBrightness("down", -brightness.Step)

	case key.Matches(msg, m.ViewKeys.PrevDashboard):
		return m.switchDashboard(-1)

	case key.Matches(msg, m.ViewKeys.NextDashboard):
		return m.switchDashboard(1)

	case key.Matches(msg, m.ViewKeys.Refresh):
		cmd := m.sched.SweepNow(m.grid.EntityIDs())
		if cmd == nil && m.grid.Len() == 0 {
			return m, m.notify(noticeInfo, "Nothing to refresh")
		}
		return m, cmd

	case key.Matches(msg, m.ViewKeys.Edit):
		return m.enterEdit()

	case key.Matches(msg, m.ViewKeys.Add):
		return m, m.notify(noticeWarning, "Enter edit mode first (press 'e')")
	}
	return m, nil
}

// toggle runs the Space action for the tile under the cursor. Lights and
// toggles flip optimistically; the flip is undone if the call fails.
func (m Model) toggle() (tea.Model, tea.Cmd) {
	tile := m.cursorTile()
	if tile == nil {
		return m, nil
	}
	if !tile.Toggleable() {
		return m, m.notify(noticeWarning, "Cannot toggle "+tile.EntityID)
	}

	window := debounce.Toggle
	if tile.Type == config.TypeLight {
		window = debounce.LightToggle
	}
	if !m.gate.Allow(tile.EntityID, window) {
		logging.Debug("Debounced toggle", zap.String("entity", tile.EntityID))
		return m, nil
	}

	id, typ := tile.EntityID, tile.Type
	switch typ {
	case config.TypeLight:
		prev := tile.FlipOptimistic()
		return m, m.sched.Go(func(ctx context.Context) tea.Msg {
			return toggleDoneMsg{entityID: id, typ: typ, prev: prev, err: m.op.SwitchLight(ctx, id, prev)}
		})

	case config.TypeAction:
		return m, m.sched.Go(func(ctx context.Context) tea.Msg {
			return toggleDoneMsg{entityID: id, typ: typ, err: m.op.Run(ctx, id)}
		})

	default:
		prev := tile.FlipOptimistic()
		return m, m.sched.Go(func(ctx context.Context) tea.Msg {
			return toggleDoneMsg{entityID: id, typ: typ, prev: prev, err: m.op.ToggleGeneric(ctx, id, prev)}
		})
	}
}

func (m Model) handleToggleDone(msg toggleDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logging.Warn("Toggle failed", zap.String("entity", msg.entityID), zap.Error(msg.err))
		if tile, _, ok := m.grid.Find(msg.entityID); ok && msg.typ != config.TypeAction {
			tile.Restore(msg.prev)
		}
		return m, m.notify(noticeError, "Cannot toggle "+msg.entityID+": "+homeassistant.ShortMessage(msg.err))
	}

	delay := entity.ToggleVerifyDelay
	if msg.typ == config.TypeLight {
		delay = entity.LightVerifyDelay
	}
	return m, m.sched.Verify(msg.entityID, delay)
}

// stageBrightness adds delta to the staged brightness of the light under the
// cursor and arms the commit timer at the start of a burst.
func (m Model) stageBrightness(direction string, delta int) (tea.Model, tea.Cmd) {
	tile := m.cursorTile()
	if tile == nil || !tile.SupportsBrightness() {
		return m, nil
	}
	if !m.gate.Allow(tile.EntityID+"_brightness_"+direction, debounce.Brightness) {
		return m, nil
	}

	current, _ := tile.DisplayBrightness()
	next, arm, gen := m.coal.Stage(tile.EntityID, current, delta)
	tile.Stage(next)
	if !arm {
		return m, nil
	}
	return m, m.armBrightness(gen)
}

func (m Model) armBrightness(gen uint64) tea.Cmd {
	return m.tick(brightness.IdleDelay, func(time.Time) tea.Msg {
		return brightnessFireMsg{gen: gen}
	})
}

// commitBrightness sends every staged value once the burst has gone idle.
func (m Model) commitBrightness(msg brightnessFireMsg) (tea.Model, tea.Cmd) {
	commits := m.coal.Fire(msg.gen)
	if len(commits) == 0 {
		return m, nil
	}

	cmds := make([]tea.Cmd, 0, len(commits))
	for _, c := range commits {
		wasOff := false
		if tile, _, ok := m.grid.Find(c.EntityID); ok {
			wasOff = tile.RemoteState == "off"
		}
		id, pct := c.EntityID, c.Pct
		cmds = append(cmds, m.sched.Go(func(ctx context.Context) tea.Msg {
			return brightnessDoneMsg{entityID: id, pct: pct, err: m.op.SetBrightness(ctx, id, pct, wasOff)}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleBrightnessDone(msg brightnessDoneMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	tile, _, onGrid := m.grid.Find(msg.entityID)
	if msg.err != nil {
		logging.Warn("Brightness commit failed", zap.String("entity", msg.entityID), zap.Error(msg.err))
		if onGrid && tile.StagedBrightness != nil && *tile.StagedBrightness == msg.pct {
			tile.ClearStaged()
		}
		cmds = append(cmds, m.notify(noticeError, "Cannot adjust brightness: "+homeassistant.ShortMessage(msg.err)))
	} else if onGrid {
		tile.CommitBrightness(msg.pct)
		cmds = append(cmds, m.sched.Verify(msg.entityID, entity.BrightnessVerifyDelay))
	}

	if rearm, gen := m.coal.Done(msg.entityID); rearm {
		cmds = append(cmds, m.armBrightness(gen))
	}
	return m, tea.Batch(cmds...)
}

// switchDashboard moves to the previous or next dashboard, wrapping around.
func (m Model) switchDashboard(dir int) (tea.Model, tea.Cmd) {
	if m.store.Len() < 2 {
		return m, nil
	}
	d, err := m.store.SwitchDashboard(dir)
	if err != nil {
		return m, m.notify(noticeError, "Cannot switch dashboard: "+err.Error())
	}
	cmd := m.loadDashboard()
	return m, tea.Batch(cmd, m.notify(noticeInfo, "Switched to "+d.Name))
}
