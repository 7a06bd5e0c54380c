package output

import "sync"

// Entry is a single recorded diagnostic message.
type Entry struct {
	Severity Severity
	Message  string
	Loc      Location
}

// Recorder is a Sink that captures every emission in memory.
//
// It exists for tests that assert on the exact warnings the debug lock
// tracker produces, and for embedders that want to inspect diagnostics
// programmatically. The zero value is ready to use.
//
// Thread Safety: all methods are safe for concurrent calls.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Emit implements Sink.
func (r *Recorder) Emit(sev Severity, msg string, loc Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Severity: sev, Message: msg, Loc: loc})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Reset discards all recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
