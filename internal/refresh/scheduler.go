package refresh

import (
	"context"
	"slices"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/logging"
)

// Fetcher reads one entity. A nil state with a nil error means the entity is
// unknown to the server.
type Fetcher func(ctx context.Context, entityID string) (*homeassistant.State, error)

// TickMsg is a periodic refresh tick. Ticks from an older generation are
// ignored.
type TickMsg struct {
	Gen uint64
}

// Result is the outcome of fetching one entity.
type Result struct {
	EntityID string
	State    *homeassistant.State
	Err      error
}

// SweepMsg carries the results of one pass over the dashboard. Gen is the
// timer generation the sweep was started under.
type SweepMsg struct {
	Results []Result
	Manual  bool
	Gen     uint64
}

// VerifyMsg carries a one-shot refresh scheduled after an action.
type VerifyMsg struct {
	Result
}

// Scheduler drives periodic state sweeps and tracks every background REST
// task so shutdown can wait for them. Its sweep state is owned by the UI event
// loop; only the task tracking is shared with command goroutines.
type Scheduler struct {
	fetch    Fetcher
	interval time.Duration
	gen      uint64
	sweeping bool
	sweepGen uint64 // generation of the sweep in flight

	// Tick schedules a message after d. Tests replace it.
	Tick func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd
	// Sleep waits before a verification fetch. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error

	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// New creates a Scheduler that reads entities through fetch.
func New(fetch Fetcher) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		fetch:  fetch,
		Tick:   tea.Tick,
		Sleep:  sleepContext,
		ctx:    ctx,
		cancel: cancel,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Start (re)starts the periodic timer. Ticks armed before the call are
// invalidated.
func (s *Scheduler) Start(interval time.Duration) tea.Cmd {
	s.gen++
	s.interval = interval
	return s.next()
}

// Stop invalidates the periodic timer.
func (s *Scheduler) Stop() {
	s.gen++
}

// Interval returns the current sweep interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Sweeping reports whether a sweep is in flight.
func (s *Scheduler) Sweeping() bool {
	return s.sweeping
}

func (s *Scheduler) next() tea.Cmd {
	gen := s.gen
	return s.Tick(s.interval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}

// HandleTick re-arms the timer and starts a sweep over ids. A tick that
// arrives while the previous sweep is still running only re-arms.
func (s *Scheduler) HandleTick(msg TickMsg, ids []string) tea.Cmd {
	if msg.Gen != s.gen {
		return nil
	}
	next := s.next()
	if s.sweeping {
		logging.Debug("Skipping refresh tick, sweep still running")
		return next
	}
	return tea.Batch(next, s.sweep(ids, false))
}

// SweepNow starts an immediate sweep unless one is running.
func (s *Scheduler) SweepNow(ids []string) tea.Cmd {
	if s.sweeping {
		return nil
	}
	return s.sweep(ids, true)
}

// Prime runs the first sweep for a freshly loaded dashboard. A sweep left
// over from before the last Start does not hold it back; its results are
// dropped by HandleSweep.
func (s *Scheduler) Prime(ids []string) tea.Cmd {
	if s.sweeping && s.sweepGen == s.gen {
		return nil
	}
	return s.sweep(ids, false)
}

// HandleSweep marks a finished sweep and reports whether its results belong
// to the current generation and should be applied.
func (s *Scheduler) HandleSweep(msg SweepMsg) bool {
	if msg.Gen == s.sweepGen {
		s.sweeping = false
	}
	if msg.Gen != s.gen {
		logging.Debug("Dropping results of a stale sweep", zap.Int("results", len(msg.Results)))
		return false
	}
	return true
}

func (s *Scheduler) sweep(ids []string, manual bool) tea.Cmd {
	if len(ids) == 0 {
		return nil
	}
	snapshot := slices.Clone(ids)
	gen := s.gen
	s.sweeping = true
	s.sweepGen = gen
	return s.Go(func(ctx context.Context) tea.Msg {
		results := make([]Result, 0, len(snapshot))
		for _, id := range snapshot {
			if ctx.Err() != nil {
				break
			}
			state, err := s.fetch(ctx, id)
			results = append(results, Result{EntityID: id, State: state, Err: err})
		}
		return SweepMsg{Results: results, Manual: manual, Gen: gen}
	})
}

// Verify schedules a one-shot refresh of entityID after delay.
func (s *Scheduler) Verify(entityID string, delay time.Duration) tea.Cmd {
	return s.Go(func(ctx context.Context) tea.Msg {
		if err := s.Sleep(ctx, delay); err != nil {
			return nil
		}
		state, err := s.fetch(ctx, entityID)
		return VerifyMsg{Result{EntityID: entityID, State: state, Err: err}}
	})
}

// Go wraps fn as a tracked command. Once Shutdown has begun, new commands do
// nothing.
func (s *Scheduler) Go(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return nil
		}
		s.wg.Add(1)
		s.mu.Unlock()
		defer s.wg.Done()

		return fn(s.ctx)
	}
}

// Shutdown stops accepting work and waits up to timeout for running tasks.
// The shared context is cancelled afterwards so stragglers abort. It reports
// whether every task finished in time.
func (s *Scheduler) Shutdown(timeout time.Duration) bool {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	drained := true
	select {
	case <-done:
		logging.Debug("Background tasks drained")
	case <-time.After(timeout):
		drained = false
		logging.Warn("Shutdown timeout, cancelling background tasks", zap.Duration("timeout", timeout))
	}
	s.cancel()
	return drained
}
