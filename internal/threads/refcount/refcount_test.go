package refcount_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/adaptivesync/internal/threads/refcount"
	"github.com/kolkov/adaptivesync/internal/threads/threadmode"
)

// withThreads enables the thread-use hint for one test so count mutations go
// through the atomic path.
func withThreads(t *testing.T) {
	t.Helper()
	prevMode := threadmode.Current()
	prevHint := threadmode.Enabled()
	threadmode.SetMode(threadmode.ModeThreaded)
	threadmode.Set(true)
	t.Cleanup(func() {
		threadmode.SetMode(prevMode)
		threadmode.Set(prevHint)
	})
}

func TestDestroyPredefinedAtFloor(t *testing.T) {
	// Scenario: predefined singleton at its floor count. Destroy must be
	// rejected with the object and handle completely unchanged.
	obj := refcount.NewPredefined("builtin", nil)
	handle := obj

	err := refcount.Destroy(&handle)

	require.ErrorIs(t, err, refcount.ErrPredefined)
	assert.Same(t, obj, handle, "handle must remain valid after rejection")
	assert.EqualValues(t, 1, obj.RefCount(), "refcount must be unchanged")
	assert.False(t, obj.Finalized(), "object must remain allocated")
}

func TestDestroyPredefinedAboveFloor(t *testing.T) {
	// Scenario: predefined singleton with an extra reference. Destroy
	// consumes exactly one reference, nils the handle, and the object
	// stays allocated on its baseline reference.
	obj := refcount.NewPredefined("builtin", nil)
	obj.Retain()
	require.EqualValues(t, 2, obj.RefCount())
	handle := obj

	err := refcount.Destroy(&handle)

	require.NoError(t, err)
	assert.Nil(t, handle, "handle must be emptied on success")
	assert.EqualValues(t, 1, obj.RefCount(), "exactly one reference consumed")
	assert.False(t, obj.Finalized(), "floor reference keeps the object alive")
}

func TestDestroyOrdinaryObjectFrees(t *testing.T) {
	// Scenario: ordinary object with a single reference. Destroy releases
	// it, the finalizer runs, and the handle is emptied.
	finalized := 0
	obj := refcount.New("payload", func(o *refcount.Object) {
		finalized++
		assert.Equal(t, "payload", o.Payload())
	})
	handle := obj

	err := refcount.Destroy(&handle)

	require.NoError(t, err)
	assert.Nil(t, handle)
	assert.Equal(t, 1, finalized, "finalizer must run exactly once")
	assert.True(t, obj.Finalized())
}

func TestDestroyOrdinaryObjectWithRemainingRefs(t *testing.T) {
	obj := refcount.New("payload", nil)
	obj.Retain()
	handle := obj

	require.NoError(t, refcount.Destroy(&handle))

	assert.Nil(t, handle)
	assert.EqualValues(t, 1, obj.RefCount())
	assert.False(t, obj.Finalized(), "object must survive while references remain")
}

func TestDestroyNilHandle(t *testing.T) {
	var handle *refcount.Object
	assert.ErrorIs(t, refcount.Destroy(&handle), refcount.ErrNilHandle)
	assert.ErrorIs(t, refcount.Destroy(nil), refcount.ErrNilHandle)
}

func TestRetainReleaseBalance(t *testing.T) {
	finalized := false
	obj := refcount.New(nil, func(*refcount.Object) { finalized = true })

	obj.Retain()
	obj.Retain()
	assert.EqualValues(t, 3, obj.RefCount())

	obj.Release()
	obj.Release()
	assert.EqualValues(t, 1, obj.RefCount())
	assert.False(t, finalized)

	obj.Release()
	assert.EqualValues(t, 0, obj.RefCount())
	assert.True(t, finalized, "finalizer must run when the count reaches zero")
}

func TestPredefinedAccessors(t *testing.T) {
	assert.True(t, refcount.NewPredefined(nil, nil).Predefined())
	assert.False(t, refcount.New(nil, nil).Predefined())
}

func TestConcurrentRetainRelease(t *testing.T) {
	// With the hint enabled the count discipline is atomic: balanced
	// concurrent retain/release pairs must land back on the baseline.
	withThreads(t)

	const (
		goroutines = 8
		perG       = 5000
	)

	obj := refcount.New(nil, nil)

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				obj.Retain()
				obj.Release()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, obj.RefCount(), "lost update in concurrent retain/release")
	assert.False(t, obj.Finalized())
}
