// Package atomicops provides arithmetic and compare-and-swap operations that
// are atomic only when they need to be.
//
// Every operation consults the thread-use hint. When the hint says multiple
// threads may be active, the operation is a true hardware atomic via
// sync/atomic. When the process is known to be single-threaded, the operation
// degrades to a plain read-modify-write, avoiding the memory-fence cost of
// the atomic instruction.
//
// The two paths are behaviorally indistinguishable to a single-threaded
// caller: same result values, same mutation semantics. The atomic path exists
// purely for multi-thread correctness. Reference counts and statistics
// counters maintained by higher layers are updated exclusively through this
// package so that they inherit the same conditional discipline.
//
// Callers in a process whose hint is false but which nevertheless runs
// concurrent mutators get what they deserve: the plain path makes no
// cross-thread guarantee whatsoever.
package atomicops

import (
	"sync/atomic"

	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// AddInt32 adds delta to *p and returns the new value.
//
// Atomic iff the thread-use hint is enabled.
func AddInt32(p *int32, delta int32) int32 {
	if threadmode.Enabled() {
		return atomic.AddInt32(p, delta)
	}
	*p += delta
	return *p
}

// AddInt64 adds delta to *p and returns the new value.
//
// Atomic iff the thread-use hint is enabled.
func AddInt64(p *int64, delta int64) int64 {
	if threadmode.Enabled() {
		return atomic.AddInt64(p, delta)
	}
	*p += delta
	return *p
}

// AddUintptr adds delta to *p and returns the new value. This is the
// machine-word-sized flavor used for size and count fields.
//
// Atomic iff the thread-use hint is enabled.
func AddUintptr(p *uintptr, delta uintptr) uintptr {
	if threadmode.Enabled() {
		return atomic.AddUintptr(p, delta)
	}
	*p += delta
	return *p
}

// CompareAndSwapInt32 stores next into *p iff *p currently equals expected,
// reporting whether the store happened.
//
// With the hint enabled this is a hardware compare-and-swap: among concurrent
// callers observing the same expected value, exactly one succeeds. With the
// hint disabled it is an unsynchronized compare-and-assign with identical
// single-threaded semantics.
func CompareAndSwapInt32(p *int32, expected, next int32) bool {
	if threadmode.Enabled() {
		return atomic.CompareAndSwapInt32(p, expected, next)
	}
	if *p == expected {
		*p = next
		return true
	}
	return false
}

// CompareAndSwapInt64 stores next into *p iff *p currently equals expected,
// reporting whether the store happened.
//
// See CompareAndSwapInt32 for the atomicity contract.
func CompareAndSwapInt64(p *int64, expected, next int64) bool {
	if threadmode.Enabled() {
		return atomic.CompareAndSwapInt64(p, expected, next)
	}
	if *p == expected {
		*p = next
		return true
	}
	return false
}

// CompareAndSwapUintptr stores next into *p iff *p currently equals expected,
// reporting whether the store happened.
//
// See CompareAndSwapInt32 for the atomicity contract.
func CompareAndSwapUintptr(p *uintptr, expected, next uintptr) bool {
	if threadmode.Enabled() {
		return atomic.CompareAndSwapUintptr(p, expected, next)
	}
	if *p == expected {
		*p = next
		return true
	}
	return false
}
