package adaptivemutex_test

import (
	"testing"

	"github.com/kolkov/adaptivesync/internal/threads/adaptivemutex"
	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// TestThreadedDelegatesWhenHintEnabled verifies the threaded variant passes
// lock/trylock/unlock through to the platform primitive when the hint says
// threads may be active.
func TestThreadedDelegatesWhenHintEnabled(t *testing.T) {
	configure(t, threadmode.ModeThreaded, true)

	p := &countingPlatform{}
	m := adaptivemutex.NewWithPlatform(p)

	m.Lock()
	m.Unlock()
	if !m.TryLock() {
		t.Error("TryLock() = false on an uncontended mutex")
	}
	m.Unlock()

	if p.locks != 1 || p.trylocks != 1 || p.unlocks != 2 {
		t.Errorf("platform calls = lock:%d trylock:%d unlock:%d, want 1/1/2",
			p.locks, p.trylocks, p.unlocks)
	}
}

// TestThreadedElidesWhenHintDisabled verifies the key elision property: with
// the hint false, the platform primitive is never invoked and no locking
// state is touched.
func TestThreadedElidesWhenHintDisabled(t *testing.T) {
	configure(t, threadmode.ModeThreaded, false)

	p := &countingPlatform{}
	m := adaptivemutex.NewWithPlatform(p)

	m.Lock()
	if !m.TryLock() {
		t.Error("TryLock() = false on the elided path, want unconditional true")
	}
	m.Unlock()
	m.Unlock()

	if got := p.calls(); got != 0 {
		t.Errorf("platform invoked %d times on the elided path, want 0", got)
	}
}

// TestThreadedTryLockReportsBusy verifies contention surfaces as a normal
// false result.
func TestThreadedTryLockReportsBusy(t *testing.T) {
	configure(t, threadmode.ModeThreaded, true)

	p := &countingPlatform{busy: true}
	m := adaptivemutex.NewWithPlatform(p)

	if m.TryLock() {
		t.Error("TryLock() = true on a busy mutex")
	}
}

// TestSingleModeIsNoOp verifies ModeSingle touches neither the platform nor
// the debug record.
func TestSingleModeIsNoOp(t *testing.T) {
	configure(t, threadmode.ModeSingle, false)
	rec := record(t)

	p := &countingPlatform{}
	m := adaptivemutex.NewWithPlatform(p)

	m.Lock()
	m.Lock()
	if !m.TryLock() {
		t.Error("TryLock() = false in ModeSingle, want unconditional true")
	}
	m.Unlock()
	m.Unlock()
	m.Unlock()

	if got := p.calls(); got != 0 {
		t.Errorf("platform invoked %d times in ModeSingle, want 0", got)
	}
	if m.Depth() != 0 {
		t.Errorf("debug depth = %d in ModeSingle, want 0 (untouched)", m.Depth())
	}
	if rec.Len() != 0 {
		t.Errorf("%d diagnostics emitted in ModeSingle, want 0", rec.Len())
	}
}

// TestDefaultPlatformRoundTrip sanity-checks New's stdlib-backed primitive.
func TestDefaultPlatformRoundTrip(t *testing.T) {
	configure(t, threadmode.ModeThreaded, true)

	m := adaptivemutex.New()
	m.Lock()
	if m.TryLock() {
		t.Error("TryLock() = true while the mutex is held")
	}
	m.Unlock()
	if !m.TryLock() {
		t.Error("TryLock() = false after release")
	}
	m.Unlock()
}
