package threads

import (
	"os"
	"strconv"

	"github.com/kolkov/adaptivesync/internal/threads/adaptivemutex"
	"github.com/kolkov/adaptivesync/internal/threads/atomicops"
	"github.com/kolkov/adaptivesync/internal/threads/output"
	"github.com/kolkov/adaptivesync/internal/threads/refcount"
	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// Re-exported types so callers never import internal packages.
type (
	// Mode selects the runtime variant. See Configure.
	Mode = threadmode.Mode

	// Mutex is the adaptive mutual-exclusion lock.
	Mutex = adaptivemutex.Mutex

	// Platform is the real locking primitive the threaded variant
	// delegates to; supply your own via NewMutexWithPlatform.
	Platform = adaptivemutex.Platform

	// Object is a reference-counted object.
	Object = refcount.Object

	// Finalizer tears down an object's resources at count zero.
	Finalizer = refcount.Finalizer

	// Stats holds the cumulative lock-misuse counters.
	Stats = adaptivemutex.Stats

	// Sink consumes lock-misuse diagnostics.
	Sink = output.Sink

	// Severity classifies a diagnostic message.
	Severity = output.Severity

	// Location is the source position attached to a diagnostic.
	Location = output.Location
)

// Runtime modes. ModeThreaded is the default.
const (
	ModeThreaded = threadmode.ModeThreaded
	ModeDebug    = threadmode.ModeDebug
	ModeSingle   = threadmode.ModeSingle
)

// Errors returned by Destroy.
var (
	// ErrPredefined reports a destroy attempt on a predefined singleton at
	// its floor count. The object and handle are unchanged.
	ErrPredefined = refcount.ErrPredefined

	// ErrNilHandle reports a destroy attempt through a nil or empty handle.
	ErrNilHandle = refcount.ErrNilHandle
)

// EnvCheckLocks is the environment variable consulted by ConfigFromEnv for
// the lock-misuse warning gate. Values are parsed with strconv.ParseBool.
const EnvCheckLocks = "ADAPTIVESYNC_CHECK_LOCKS"

// Config is the startup configuration for the layer.
//
// The configuration is applied once, before any concurrent activity; the
// mode in particular selects the locking strategy for the life of the
// process.
type Config struct {
	// Mode is the runtime variant. Default: ModeThreaded.
	Mode Mode

	// CheckLocks gates lock-misuse warnings in ModeDebug. Depth
	// bookkeeping happens regardless; only emission is gated.
	CheckLocks bool

	// Sink receives lock-misuse diagnostics. Nil keeps the current sink
	// (by default a zap logger writing to stderr).
	Sink Sink
}

// DefaultConfig returns the configuration used when Configure is never
// called: threaded mode with lock checking enabled.
func DefaultConfig() Config {
	return Config{Mode: ModeThreaded, CheckLocks: true}
}

// ConfigFromEnv builds a Config from the environment.
//
// ADAPTIVESYNC_MODE selects the mode ("threaded", "debug" or "single");
// ADAPTIVESYNC_CHECK_LOCKS toggles misuse warnings. Unset or unparseable
// values fall back to DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if mode, ok := threadmode.ModeFromEnv(); ok {
		cfg.Mode = mode
	}
	if raw := os.Getenv(EnvCheckLocks); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.CheckLocks = v
		}
	}
	return cfg
}

// Configure applies cfg. Call once during startup, before any mutex is used
// and before concurrent activity begins; later calls simply overwrite the
// earlier configuration.
func Configure(cfg Config) {
	threadmode.SetMode(cfg.Mode)
	adaptivemutex.SetCheckLocks(cfg.CheckLocks)
	if cfg.Sink != nil {
		output.SetDefault(cfg.Sink)
	}
}

// SetUsingThreads records whether the process may have more than one active
// thread and returns the value actually stored.
//
// The request is honored only in ModeThreaded; the single-threaded modes
// force and return false regardless. Set once, early: the transition is not
// guaranteed to be observed atomically by threads that already exist.
func SetUsingThreads(enabled bool) bool {
	return threadmode.Set(enabled)
}

// UsingThreads reports whether the process may have more than one active
// thread. When false, the layer's lock and atomic operations run their
// elided fast paths.
func UsingThreads() bool {
	return threadmode.Enabled()
}

// NewMutex returns an adaptive mutex backed by the default platform
// primitive.
func NewMutex() *Mutex {
	return adaptivemutex.New()
}

// NewMutexWithPlatform returns an adaptive mutex backed by the supplied
// primitive. The primitive stays owned by the caller.
func NewMutexWithPlatform(p Platform) *Mutex {
	return adaptivemutex.NewWithPlatform(p)
}

// MutexTryLock attempts to acquire m without blocking and reports whether
// the lock was acquired. A false return under contention is a normal
// outcome, not an error.
func MutexTryLock(m *Mutex) bool {
	return m.TryLock()
}

// MutexLock acquires m, blocking until available in the threaded path and
// returning immediately in the elided paths.
func MutexLock(m *Mutex) {
	m.Lock()
}

// MutexUnlock releases m.
func MutexUnlock(m *Mutex) {
	m.Unlock()
}

// WithLock runs action while holding m and returns its result, with release
// guaranteed on every exit path including a propagating panic.
func WithLock[T any](m *Mutex, action func() T) T {
	return adaptivemutex.WithLock(m, action)
}

// Do runs action while holding m, for actions without a result.
func Do(m *Mutex, action func()) {
	adaptivemutex.Do(m, action)
}

// AddInt32 adds delta to *p and returns the new value, atomically iff
// UsingThreads is true.
func AddInt32(p *int32, delta int32) int32 {
	return atomicops.AddInt32(p, delta)
}

// AddInt64 adds delta to *p and returns the new value, atomically iff
// UsingThreads is true.
func AddInt64(p *int64, delta int64) int64 {
	return atomicops.AddInt64(p, delta)
}

// AddUintptr adds delta to *p and returns the new value, atomically iff
// UsingThreads is true.
func AddUintptr(p *uintptr, delta uintptr) uintptr {
	return atomicops.AddUintptr(p, delta)
}

// CompareAndSwapInt32 stores next into *p iff *p equals expected, reporting
// whether the store happened. Hardware CAS iff UsingThreads is true.
func CompareAndSwapInt32(p *int32, expected, next int32) bool {
	return atomicops.CompareAndSwapInt32(p, expected, next)
}

// CompareAndSwapInt64 stores next into *p iff *p equals expected, reporting
// whether the store happened. Hardware CAS iff UsingThreads is true.
func CompareAndSwapInt64(p *int64, expected, next int64) bool {
	return atomicops.CompareAndSwapInt64(p, expected, next)
}

// NewObject returns an ordinary reference-counted object holding payload
// with an initial count of 1. fin may be nil.
func NewObject(payload any, fin Finalizer) *Object {
	return refcount.New(payload, fin)
}

// NewPredefined returns a library-owned singleton whose baseline reference
// Destroy will refuse to consume. fin may be nil.
func NewPredefined(payload any, fin Finalizer) *Object {
	return refcount.NewPredefined(payload, fin)
}

// Retain adds a reference to o.
func Retain(o *Object) {
	o.Retain()
}

// Release drops a reference to o, freeing it at count zero. The decrement
// follows the same conditional-atomic discipline as AddInt64.
func Release(o *Object) {
	o.Release()
}

// Destroy releases the object referenced by handle and empties the handle.
//
// When the object is a predefined singleton already at its floor count,
// Destroy returns ErrPredefined and leaves both the object and the handle
// untouched: the caller still holds a valid reference. Treat that result as
// "object still alive", not as a retryable failure.
func Destroy(handle **Object) error {
	return refcount.Destroy(handle)
}

// TrackerStats returns the cumulative lock-misuse counters recorded by the
// debug lock tracker.
func TrackerStats() Stats {
	return adaptivemutex.TrackerStats()
}
