// Package threads provides the public API for the adaptive synchronization
// and reference-counted lifetime layer.
//
// The layer makes concurrency primitives pay their cost only when concurrency
// is actually possible. A process-wide hint says whether more than one thread
// may be active; mutex and atomic operations consult it and either delegate
// to real primitives or degrade to near-zero cost.
//
// # Quick Start
//
// Configure the layer once during startup, before any concurrent activity:
//
//	func main() {
//		threads.Configure(threads.ConfigFromEnv())
//		threads.SetUsingThreads(runtimeWantsThreads)
//
//		mu := threads.NewMutex()
//		threads.MutexLock(mu)
//		// ... critical section ...
//		threads.MutexUnlock(mu)
//	}
//
// # Runtime Modes
//
// The layer runs as one of three variants, fixed at startup:
//
//   - ModeThreaded: real locking and atomics whenever the thread-use hint is
//     true; elided fast paths when it is false.
//   - ModeDebug: single-threaded with diagnostic instrumentation. No real
//     locking; lock misuse (double lock, spurious unlock) is detected and
//     reported through the diagnostic sink as warnings. Operations always
//     proceed — the tracker is advisory, never fatal.
//   - ModeSingle: single-threaded, zero overhead, all lock operations no-ops.
//
// # The Thread-Use Hint
//
// SetUsingThreads records whether multiple threads may be active. It is an
// optimization hint, not a thread-safety oracle: setting it to false in a
// process that runs concurrent callers voids all guarantees. The hint is
// read and written without synchronization by design — set it once, early,
// before concurrent activity begins.
//
// # Conditional Atomics
//
// AddInt32/AddInt64/AddUintptr and the CompareAndSwap functions perform true
// hardware atomics iff the hint is enabled, and plain read-modify-write
// otherwise. The two paths are indistinguishable to a single-threaded caller.
//
// # Reference-Counted Lifetime
//
// Objects created with NewObject live until their count reaches zero through
// Release. Objects created with NewPredefined are library-owned singletons:
// Destroy refuses to consume their final baseline reference, returning
// ErrPredefined with the object and handle untouched.
//
//	dt := threads.NewPredefined(payload, freePayload)
//	handle := dt
//	if err := threads.Destroy(&handle); err != nil {
//		// object still alive, handle still valid
//	}
//
// # API Overview
//
//   - Configuration: [Configure], [ConfigFromEnv], [SetUsingThreads],
//     [UsingThreads]
//   - Locking: [NewMutex], [MutexTryLock], [MutexLock], [MutexUnlock],
//     [WithLock], [Do]
//   - Atomics: [AddInt32], [AddInt64], [AddUintptr], [CompareAndSwapInt32],
//     [CompareAndSwapInt64]
//   - Lifetime: [NewObject], [NewPredefined], [Retain], [Release], [Destroy]
//   - Introspection: [GetInfo], [TrackerStats], [AtLeast]
package threads
