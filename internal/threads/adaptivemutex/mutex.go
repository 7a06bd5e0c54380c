// Package adaptivemutex implements a mutex whose cost adapts to the process's
// concurrency configuration.
//
// The mutex behaves as one of three variants, selected once at startup via
// threadmode.SetMode:
//
//   - ModeThreaded: lock/trylock/unlock consult the thread-use hint per call.
//     When the hint is true they delegate to the real platform primitive;
//     when false they are no-ops, on the assumption that no contention is
//     possible in a single-threaded process.
//   - ModeDebug: no real locking happens. Instead the debug lock tracker
//     (tracker.go) records lock depth and acquisition sites, emitting
//     warnings on misuse. Operations always proceed.
//   - ModeSingle: pure no-ops.
//
// The three variants have identical semantics for correctly used mutexes in
// their respective configurations; callers must not use the elided paths as a
// correctness guarantee when threading is actually possible.
package adaptivemutex

import (
	"sync"

	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// Platform is the real mutual-exclusion primitive the threaded variant
// delegates to. It is an interface so that the owning component can supply
// its own primitive and so tests can observe exactly when the platform is
// (and is not) invoked.
//
// Lock blocks until the mutex is acquired. TryLock never blocks and reports
// whether acquisition succeeded. Unlock releases a held mutex; unlocking a
// mutex that is not held is caller error with platform-defined consequences.
type Platform interface {
	Lock()
	TryLock() bool
	Unlock()
}

// stdPlatform is the default Platform, backed by the Go runtime's mutex.
type stdPlatform struct {
	mu sync.Mutex
}

func (p *stdPlatform) Lock()         { p.mu.Lock() }
func (p *stdPlatform) TryLock() bool { return p.mu.TryLock() }
func (p *stdPlatform) Unlock()       { p.mu.Unlock() }

// Mutex is an adaptive mutual-exclusion lock.
//
// The zero value is not ready to use; create instances with New or
// NewWithPlatform. The mutex wraps an opaque platform primitive (owned by
// whoever created it) and carries a debug record that is only touched in
// ModeDebug.
//
// A Mutex must not be copied after first use.
type Mutex struct {
	// platform is the real primitive used by the threaded variant.
	platform Platform

	// debug tracks lock depth and last acquisition site in ModeDebug.
	// Unsynchronized by design: ModeDebug asserts a single-threaded
	// process, and the record is advisory diagnostic state either way.
	debug debugRecord
}

// New returns a Mutex backed by the default platform primitive.
func New() *Mutex {
	return &Mutex{platform: &stdPlatform{}}
}

// NewWithPlatform returns a Mutex backed by the supplied primitive. The
// primitive remains owned by the caller; the mutex never creates or destroys
// platform state.
func NewWithPlatform(p Platform) *Mutex {
	return &Mutex{platform: p}
}

// TryLock attempts to acquire m without blocking and reports whether the
// lock was acquired.
//
// Contention (a false return in the threaded variant) is a normal outcome,
// not an error. In the elided single-threaded paths TryLock always reports
// true without touching any locking state; in ModeDebug it succeeds only if
// the tracked depth was zero, warning otherwise.
func (m *Mutex) TryLock() bool {
	switch threadmode.Current() {
	case threadmode.ModeThreaded:
		if threadmode.Enabled() {
			return m.platform.TryLock()
		}
		return true
	case threadmode.ModeDebug:
		return m.debugTryLock()
	default:
		return true
	}
}

// Lock acquires m, blocking until it is available.
//
// Blocking can only occur in the threaded variant with the thread-use hint
// enabled; every other path returns immediately. There is no timeout and no
// cancellation: a blocked caller stays blocked until the holder releases.
//
// Postcondition: in the threaded path the caller holds exclusive access; in
// the elided paths the caller simply proceeds.
func (m *Mutex) Lock() {
	switch threadmode.Current() {
	case threadmode.ModeThreaded:
		if threadmode.Enabled() {
			m.platform.Lock()
		}
	case threadmode.ModeDebug:
		m.debugLock()
	}
}

// Unlock releases m.
//
// In the threaded variant with the hint enabled this delegates to the
// platform primitive; otherwise it is a no-op (ModeDebug performs tracker
// bookkeeping only).
func (m *Mutex) Unlock() {
	switch threadmode.Current() {
	case threadmode.ModeThreaded:
		if threadmode.Enabled() {
			m.platform.Unlock()
		}
	case threadmode.ModeDebug:
		m.debugUnlock()
	}
}
