package adaptivemutex

import "github.com/kolkov/adaptivesync/internal/threads/threadmode"

// WithLock runs action while holding m and returns the action's result.
//
// In the threaded variant with the thread-use hint enabled, the platform
// primitive is acquired before action runs and released via defer, so the
// release is guaranteed on every exit path, including a panic propagating
// out of action. With the hint disabled, action runs inline with no locking
// state touched.
//
// In ModeDebug the tracker performs an unchecked lock/unlock depth pair
// around action (no site recording, no depth checks on the way out), after
// first warning if the mutex is already tracked as held on entry. ModeSingle
// runs action inline.
func WithLock[T any](m *Mutex, action func() T) T {
	switch threadmode.Current() {
	case threadmode.ModeThreaded:
		if threadmode.Enabled() {
			m.platform.Lock()
			defer m.platform.Unlock()
			return action()
		}
		return action()
	case threadmode.ModeDebug:
		if m.debug.depth != 0 {
			doubleLocks.Add(1)
			if checkLocks {
				site := callerSite()
				warnf(site, "scoped lock of mutex already locked at %s, now at %s",
					m.heldSite(), site)
			}
		}
		m.debug.depth++
		defer func() { m.debug.depth-- }()
		return action()
	default:
		return action()
	}
}

// Do is the result-free form of WithLock for actions that only mutate
// protected state.
func Do(m *Mutex, action func()) {
	WithLock(m, func() struct{} {
		action()
		return struct{}{}
	})
}
