// Package refcount implements reference-counted object lifetime with a
// guarded destroy path for library-owned singletons.
//
// Objects are owned collectively by everyone holding a reference; the object
// lives until its count reaches zero through Release. Objects marked as
// predefined are singletons owned by the library itself: they are registered
// with a baseline reference that ordinary caller destroy calls must never be
// able to consume. The Destroy guard enforces that floor.
//
// Count mutations go through the atomicops package, so they are hardware
// atomic exactly when the thread-use hint says multiple threads may be
// active, and plain arithmetic otherwise. Callers in a guaranteed
// single-threaded context thereby get the elided fast path for free.
package refcount

import (
	"errors"

	"github.com/kolkov/adaptivesync/internal/threads/atomicops"
)

// Finalizer releases an object's resources once its reference count reaches
// zero. It runs at most once per object, from within the Release call that
// observed zero.
type Finalizer func(*Object)

// Object is a reference-counted object.
//
// Instances are created by the owning object system with the count and the
// predefined flag already populated; this package supplies the lifetime
// operations. The payload is opaque to the lifetime machinery.
type Object struct {
	// count is the reference count. Mutated only through atomicops so the
	// discipline matches the process's concurrency configuration.
	count int64

	// predefined marks a library-owned singleton whose baseline reference
	// must survive caller destroy calls.
	predefined bool

	// payload is the object's content, opaque to this package.
	payload any

	// finalizer tears down payload resources when the count hits zero.
	finalizer Finalizer

	// finalized records that the finalizer has run; the object is dead and
	// any further use is caller error.
	finalized bool
}

// New returns an ordinary object holding payload with an initial reference
// count of 1. The finalizer may be nil.
func New(payload any, fin Finalizer) *Object {
	return &Object{count: 1, payload: payload, finalizer: fin}
}

// NewPredefined returns a library-owned singleton holding payload with an
// initial reference count of 1 — the floor reference that Destroy refuses to
// consume. The finalizer may be nil.
func NewPredefined(payload any, fin Finalizer) *Object {
	return &Object{count: 1, predefined: true, payload: payload, finalizer: fin}
}

// Retain adds a reference to o.
func (o *Object) Retain() {
	atomicops.AddInt64(&o.count, 1)
}

// Release drops a reference to o. When the count reaches zero the finalizer
// runs and the object is dead; releasing below zero is caller error.
func (o *Object) Release() {
	if atomicops.AddInt64(&o.count, -1) == 0 {
		o.finalized = true
		if o.finalizer != nil {
			o.finalizer(o)
		}
	}
}

// RefCount returns the current reference count.
func (o *Object) RefCount() int64 {
	return o.count
}

// Predefined reports whether o is a library-owned singleton.
func (o *Object) Predefined() bool {
	return o.predefined
}

// Payload returns the object's content.
func (o *Object) Payload() any {
	return o.payload
}

// Finalized reports whether the finalizer has run. Used by tests and by
// teardown assertions in host runtimes.
func (o *Object) Finalized() bool {
	return o.finalized
}

// ErrPredefined is returned by Destroy when the referenced object is a
// predefined singleton already at its floor count. The object and the
// caller's handle are left completely unchanged.
var ErrPredefined = errors.New("refcount: cannot destroy predefined object at floor count")

// ErrNilHandle is returned by Destroy when the handle is nil or already
// empty.
var ErrNilHandle = errors.New("refcount: destroy of nil handle")

// Destroy releases the object referenced by handle and empties the handle.
//
// Predefined singletons are protected by a floor: when the referenced object
// is predefined and its count is already at or below 1, Destroy returns
// ErrPredefined without touching the object or the handle — the caller
// retains a valid reference. In every other case the reference is released
// (freeing the object if the count reaches zero), the handle is set to nil,
// and Destroy returns nil.
//
// Callers must treat an ErrPredefined result as "object still alive, handle
// still valid", not as a retryable failure.
func Destroy(handle **Object) error {
	if handle == nil || *handle == nil {
		return ErrNilHandle
	}
	obj := *handle

	if obj.predefined && obj.RefCount() <= 1 {
		return ErrPredefined
	}

	obj.Release()
	*handle = nil
	return nil
}
