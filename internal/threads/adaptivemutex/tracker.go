package adaptivemutex

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/kolkov/adaptivesync/internal/threads/output"
)

// Debug lock tracker.
//
// In ModeDebug no real locking happens; these functions substitute diagnostic
// bookkeeping for the platform primitive. Each mutex carries a lock-depth
// counter and the source location of its last acquirer. A correctly used
// non-recursive mutex keeps the depth at 0 or 1; anything else indicates
// caller misuse, not corruption, and is reported as a warning through the
// output sink. The tracker is advisory: it never blocks, never fails an
// operation that the real mutex would have allowed, and never changes
// control-flow outcomes visible to correctness.
//
// The reference behavior this reproduces had two unlock warning branches
// guarded by the same negative-depth test, making the second unreachable.
// The tracker implements the single reachable rule: warn once when an unlock
// drives the depth negative.

// debugRecord is the per-mutex diagnostic state maintained in ModeDebug.
type debugRecord struct {
	// depth is the lock-depth counter: 0 = unlocked, 1 = locked, anything
	// else = misuse. Plain int32; ModeDebug asserts single-threadedness.
	depth int32

	// file/line record the acquisition site of the current holder. Cleared
	// on a balanced unlock.
	file string
	line int
}

// checkLocks gates warning emission. Depth bookkeeping continues regardless,
// so flipping the gate mid-run does not desynchronize the counters. Plain
// variable, set at startup configuration.
var checkLocks = true

// SetCheckLocks enables or disables misuse warnings in ModeDebug.
func SetCheckLocks(enabled bool) {
	checkLocks = enabled
}

// CheckLocks reports whether misuse warnings are enabled.
func CheckLocks() bool {
	return checkLocks
}

// Stats counts misuse detections since process start. The counters are
// cumulative across all mutexes and are meant for host runtimes that want a
// teardown summary; individual warnings carry the interesting detail.
type Stats struct {
	// DoubleLocks counts Lock calls that found the mutex already locked.
	DoubleLocks uint64

	// FailedTryLocks counts TryLock calls rejected because the mutex was
	// already locked.
	FailedTryLocks uint64

	// BadUnlocks counts Unlock calls that drove the depth negative.
	BadUnlocks uint64
}

var (
	doubleLocks    atomic.Uint64
	failedTryLocks atomic.Uint64
	badUnlocks     atomic.Uint64
)

// TrackerStats returns a snapshot of the cumulative misuse counters.
func TrackerStats() Stats {
	return Stats{
		DoubleLocks:    doubleLocks.Load(),
		FailedTryLocks: failedTryLocks.Load(),
		BadUnlocks:     badUnlocks.Load(),
	}
}

// ResetTrackerStats zeroes the misuse counters. Used by tests.
func ResetTrackerStats() {
	doubleLocks.Store(0)
	failedTryLocks.Store(0)
	badUnlocks.Store(0)
}

// debugLock records an unconditional acquisition. The operation always
// "succeeds": if the depth does not land exactly at 1 a warning naming the
// previous and current acquisition sites is emitted, but execution proceeds.
func (m *Mutex) debugLock() {
	site := callerSite()
	m.debug.depth++
	if m.debug.depth != 1 {
		doubleLocks.Add(1)
		if checkLocks {
			warnf(site, "mutex already locked at %s, now locked at %s",
				m.heldSite(), site)
		}
	}
	m.debug.file = site.File
	m.debug.line = site.Line
}

// debugTryLock records an acquisition attempt. It succeeds only from depth 0;
// otherwise it warns and reports failure, leaving the recorded site of the
// current holder intact.
func (m *Mutex) debugTryLock() bool {
	site := callerSite()
	if m.debug.depth == 0 {
		m.debug.depth++
		m.debug.file = site.File
		m.debug.line = site.Line
		return true
	}
	failedTryLocks.Add(1)
	if checkLocks {
		warnf(site, "trylock of mutex already locked at %s, attempted at %s",
			m.heldSite(), site)
	}
	return false
}

// debugUnlock records a release. A balanced release clears the recorded
// acquisition site; a release that drives the depth negative warns instead.
func (m *Mutex) debugUnlock() {
	site := callerSite()
	m.debug.depth--
	if m.debug.depth < 0 {
		badUnlocks.Add(1)
		if checkLocks {
			warnf(site, "unlock of unlocked mutex at %s", site)
		}
		return
	}
	m.debug.file = ""
	m.debug.line = 0
}

// heldSite returns the recorded acquisition site of the current holder.
func (m *Mutex) heldSite() output.Location {
	return output.Location{File: m.debug.file, Line: m.debug.line}
}

// HeldSite exposes the recorded acquisition site for tests and teardown
// reporting. Zero when the mutex is not tracked as held.
func (m *Mutex) HeldSite() output.Location {
	return m.heldSite()
}

// Depth exposes the tracked lock depth. Only meaningful in ModeDebug.
func (m *Mutex) Depth() int {
	return int(m.debug.depth)
}

// warnf formats and emits a misuse warning through the default sink.
func warnf(site output.Location, format string, args ...any) {
	output.Default().Emit(output.SeverityWarning, fmt.Sprintf(format, args...), site)
}

// modulePrefix identifies this library's own frames in a captured stack so
// that recorded acquisition sites point at the caller, not at the wrapper
// layers between the caller and the tracker.
const modulePrefix = "github.com/kolkov/adaptivesync/"

// maxSiteDepth bounds the stack walk when locating the caller frame.
const maxSiteDepth = 16

// callerSite returns the source location of the nearest frame outside this
// library. Test packages (package path suffix "_test") count as outside.
func callerSite() output.Location {
	var pcs [maxSiteDepth]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !isLibraryFrame(frame.Function) {
			return output.Location{File: frame.File, Line: frame.Line}
		}
		if !more {
			return output.Location{}
		}
	}
}

// isLibraryFrame reports whether the fully qualified function name belongs
// to this library's non-test packages. External test packages compile under
// "<pkg>_test" and count as caller code.
func isLibraryFrame(fn string) bool {
	return strings.HasPrefix(fn, modulePrefix) && !strings.Contains(fn, "_test.")
}
