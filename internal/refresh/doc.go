// Package refresh keeps tiles in sync with Home Assistant by polling.
//
// # Periodic sweeps
//
// Start arms a tea.Tick for the dashboard's refresh interval. Each tick
// re-arms itself and fetches a snapshot of the dashboard's entity ids one by
// one, returning a single SweepMsg. A tick that lands while the previous sweep
// is still running is skipped, so sweeps never overlap. Restarting with a new
// interval bumps a generation number; stale ticks are dropped, and so are the
// results of a sweep that was still running when the generation changed.
//
// # Verification
//
// After a successful action the controller calls Verify, which waits a short
// delay and fetches the one entity again.
//
// # Shutdown
//
// All REST work runs through Go so it is counted. Shutdown refuses new work,
// waits for in-flight tasks up to a timeout, then cancels the shared context.
package refresh
