package adaptivemutex_test

import (
	"sync"
	"testing"

	"github.com/kolkov/adaptivesync/internal/threads/adaptivemutex"
	"github.com/kolkov/adaptivesync/internal/threads/output"
	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// configure pins the runtime variant and thread-use hint for one test,
// restoring the previous configuration afterwards.
func configure(t *testing.T, mode threadmode.Mode, hint bool) {
	t.Helper()
	prevMode := threadmode.Current()
	prevHint := threadmode.Enabled()
	threadmode.SetMode(mode)
	threadmode.Set(hint)
	t.Cleanup(func() {
		threadmode.SetMode(prevMode)
		threadmode.Set(prevHint)
	})
}

// record installs a fresh Recorder as the diagnostic sink for one test.
func record(t *testing.T) *output.Recorder {
	t.Helper()
	rec := &output.Recorder{}
	prev := output.Default()
	output.SetDefault(rec)
	t.Cleanup(func() {
		output.SetDefault(prev)
		adaptivemutex.ResetTrackerStats()
	})
	return rec
}

// countingPlatform records every platform-primitive invocation so tests can
// observe when the adaptive layer does and does not delegate.
type countingPlatform struct {
	mu       sync.Mutex
	locks    int
	trylocks int
	unlocks  int
	busy     bool // TryLock reports busy when set.
}

func (p *countingPlatform) Lock() {
	p.locks++
	p.mu.Lock()
}

func (p *countingPlatform) TryLock() bool {
	p.trylocks++
	if p.busy {
		return false
	}
	return p.mu.TryLock()
}

func (p *countingPlatform) Unlock() {
	p.unlocks++
	p.mu.Unlock()
}

func (p *countingPlatform) calls() int {
	return p.locks + p.trylocks + p.unlocks
}
