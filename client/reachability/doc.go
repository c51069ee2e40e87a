// Package reachability answers "is the network usable right now?" without
// blocking the caller.
//
// A [Monitor] polls a [Prober] on its own goroutine and caches the last
// answer in an atomic flag. [Monitor.IsConnected] is a plain read of that
// flag, so it may lag the real network state by up to one poll interval.
//
//	m, err := reachability.New(reachability.InterfaceProber(),
//		reachability.WithInterval(5*time.Second),
//	)
//	if err := m.Start(ctx); err != nil { ... }
//	defer m.Stop()
//
//	if !m.IsConnected() { ... }
//
// A Monitor reports false until it has been started. Start takes the first
// observation before returning, so a started Monitor never reports the
// unknown state.
package reachability
