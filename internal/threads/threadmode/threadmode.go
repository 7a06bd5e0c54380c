// Package threadmode holds the process-wide concurrency configuration: the
// runtime mode selected at startup and the thread-use hint that higher layers
// consult to decide whether synchronization is worth paying for.
//
// The hint answers one question: may more than one thread be active in this
// process? If the answer is no, the adaptive mutex and the conditional atomic
// operations elide their work entirely. The hint is an optimization hint, not
// a thread-safety oracle — setting it to false in a process that actually
// runs concurrent callers is caller error and voids all guarantees.
//
// Both the mode and the hint are plain (non-atomic) variables on purpose.
// They are expected to be written once, early, before any concurrent activity
// begins, and only read afterwards. This mirrors the startup sequencing of
// the runtimes this layer is linked into: the host decides its final thread
// level during initialization, long before worker threads exist.
package threadmode

import "os"

// Mode selects which of the three behavioral variants the locking layer runs
// in. It is fixed once at startup configuration and never changes afterwards.
type Mode uint8

const (
	// ModeThreaded means the process may run concurrent callers. Mutex and
	// atomic operations consult the thread-use hint per call and delegate to
	// real primitives when the hint is true.
	ModeThreaded Mode = iota

	// ModeDebug means the process is single-threaded but lock usage should
	// be checked. Mutex operations perform diagnostic bookkeeping only and
	// never touch a real primitive.
	ModeDebug

	// ModeSingle means the process is single-threaded and wants zero
	// overhead. All mutex operations are no-ops.
	ModeSingle
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeThreaded:
		return "threaded"
	case ModeDebug:
		return "debug"
	case ModeSingle:
		return "single"
	default:
		return "unknown"
	}
}

// EnvMode is the environment variable read by ModeFromEnv.
const EnvMode = "ADAPTIVESYNC_MODE"

// mode is the selected runtime variant. Plain variable, set before use.
var mode = ModeThreaded

// usesThreads is the thread-use hint. Plain variable by design: reads and
// writes are unsynchronized, and writes must happen before concurrent
// activity begins.
var usesThreads bool

// SetMode fixes the runtime variant. In the single-threaded modes the
// thread-use hint is forced to false, since concurrency is impossible there
// regardless of what a later Set requests.
func SetMode(m Mode) {
	mode = m
	if m != ModeThreaded {
		usesThreads = false
	}
}

// Current returns the selected runtime variant.
func Current() Mode {
	return mode
}

// Set updates the thread-use hint and returns the value actually stored.
//
// The request is honored only in ModeThreaded; in the single-threaded modes
// the hint stays false no matter what was requested, and false is returned.
// This normalization lets host startup code call Set unconditionally with
// whatever thread level it negotiated.
//
// Callers must not rely on the transition being observed atomically by other
// threads; the hint is meant to be set once, early, before any thread that
// could observe it concurrently exists.
func Set(enabled bool) bool {
	if mode != ModeThreaded {
		enabled = false
	}
	usesThreads = enabled
	return usesThreads
}

// Enabled reports the current thread-use hint.
func Enabled() bool {
	return usesThreads
}

// ModeFromEnv parses the ADAPTIVESYNC_MODE environment variable.
//
// Recognized values are "threaded", "debug" and "single". The second return
// is false when the variable is unset or unrecognized, in which case the
// caller should keep its default.
func ModeFromEnv() (Mode, bool) {
	switch os.Getenv(EnvMode) {
	case "threaded":
		return ModeThreaded, true
	case "debug":
		return ModeDebug, true
	case "single":
		return ModeSingle, true
	default:
		return ModeThreaded, false
	}
}
