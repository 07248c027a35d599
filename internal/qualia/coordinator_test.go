package qualia

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkelement/perceptia/internal/dharma"
	"github.com/darkelement/perceptia/internal/perceptron"
)

func newTestCoordinator(t *testing.T) (*Coordinator, *Bus) {
	t.Helper()
	bus := dharma.New[perceptron.SignalId, perceptron.Perceptron](8)
	return New(NewCounterAllocator(), bus), bus
}

func subscribe(t *testing.T, bus *Bus, id perceptron.SignalId) *dharma.Receiver[perceptron.SignalId, perceptron.Perceptron] {
	t.Helper()
	r := bus.NewReceiver()
	bus.Subscribe(id, r)
	return r
}

func recvWithin(t *testing.T, r *dharma.Receiver[perceptron.SignalId, perceptron.Perceptron], d time.Duration) (dharma.Event[perceptron.SignalId, perceptron.Perceptron], bool) {
	t.Helper()
	select {
	case ev := <-r.Chan():
		return ev, true
	case <-time.After(d):
		return dharma.Event[perceptron.SignalId, perceptron.Perceptron]{}, false
	}
}

func assertNoEventWithin(t *testing.T, r *dharma.Receiver[perceptron.SignalId, perceptron.Perceptron], d time.Duration) {
	t.Helper()
	select {
	case ev := <-r.Chan():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(d):
	}
}

func TestCreateSurfaceIdsAreMonotonicAndNeverReused(t *testing.T) {
	c, _ := newTestCoordinator(t)

	a := c.CreateSurface()
	b := c.CreateSurface()
	require.True(t, b > a)

	c.DestroySurface(context.Background(), a)
	d := c.CreateSurface()
	assert.NotEqual(t, a, d)
	assert.True(t, d > b)
}

func TestShowReasonGatingEmitsReadyExactlyOnce(t *testing.T) {
	c, bus := newTestCoordinator(t)
	ready := subscribe(t, bus, perceptron.SurfaceReady)

	sid := c.CreateSurface()
	mpid := c.CreatePoolFromBuffer(make([]byte, 64))
	mvid, err := c.CreateMemoryView(mpid, 0, 8, 8, 8)
	require.NoError(t, err)

	c.Attach(mvid, sid)
	// Attach alone must not trigger SURFACE_READY.
	assertNoEventWithin(t, ready, 50*time.Millisecond)

	c.ShowSurface(context.Background(), sid, InShell)

	c.CommitSurface(context.Background(), sid)
	ev, ok := recvWithin(t, ready, time.Second)
	require.True(t, ok)
	gotSid, ok := perceptron.AsSurfaceReady(ev.Payload)
	require.True(t, ok)
	assert.Equal(t, sid, gotSid)

	// A second commit must not re-emit SURFACE_READY.
	c.CommitSurface(context.Background(), sid)
	assertNoEventWithin(t, ready, 50*time.Millisecond)
}

func TestFocusChangeEmitsOnlyOnTransition(t *testing.T) {
	c, bus := newTestCoordinator(t)
	focus := subscribe(t, bus, perceptron.KeyboardFocusChanged)

	sid := c.CreateSurface()

	c.SetKeyboardFocus(sid)
	ev, ok := recvWithin(t, focus, time.Second)
	require.True(t, ok)
	old, new_, ok := perceptron.AsKeyboardFocusChanged(ev.Payload)
	require.True(t, ok)
	assert.Equal(t, InvalidSurfaceId, old)
	assert.Equal(t, sid, new_)

	c.SetKeyboardFocus(sid)
	assertNoEventWithin(t, focus, 50*time.Millisecond)
	assert.Equal(t, sid, c.KeyboardFocus())
}

func TestMemoryPoolLifetimeReleasesOnLastViewDrop(t *testing.T) {
	c, _ := newTestCoordinator(t)

	released := false
	storage := NewMappedStorage(make([]byte, 32), func() { released = true })
	mpid := c.CreatePoolFromMemory(storage)

	mvid, err := c.CreateMemoryView(mpid, 0, 4, 4, 4)
	require.NoError(t, err)

	c.DestroyMemoryPool(mpid)
	assert.False(t, released, "storage must stay alive while a view remains")

	c.DestroyMemoryView(mvid)
	assert.True(t, released, "storage must be released once the last view drops")
}

func TestCreateMemoryViewFailsOnMissingPool(t *testing.T) {
	c, _ := newTestCoordinator(t)

	_, err := c.CreateMemoryView(MemoryPoolId(999), 0, 1, 1, 1)
	require.Error(t, err)
}

func TestDestroySurfaceEmitsDestroyedAndFailsSilentlyAfter(t *testing.T) {
	c, bus := newTestCoordinator(t)
	destroyed := subscribe(t, bus, perceptron.SurfaceDestroyed)

	sid := c.CreateSurface()
	c.DestroySurface(context.Background(), sid)

	ev, ok := recvWithin(t, destroyed, time.Second)
	require.True(t, ok)
	gotSid, ok := perceptron.AsSurfaceDestroyed(ev.Payload)
	require.True(t, ok)
	assert.Equal(t, sid, gotSid)

	_, found := c.SurfaceInfo(sid)
	assert.False(t, found)

	// Operating on the now-dead id must not panic.
	c.Attach(InvalidMemoryViewId, sid)
	c.CommitSurface(context.Background(), sid)
	c.DestroySurface(context.Background(), sid)
}

func TestGetRendererContextTraversesSatellites(t *testing.T) {
	c, _ := newTestCoordinator(t)

	root := c.CreateSurface()
	child := c.CreateSurface()
	c.RelateSurfaces(context.Background(), child, root)

	ctxs := c.GetRendererContext(root)
	ids := make([]SurfaceId, 0, len(ctxs))
	for _, sc := range ctxs {
		ids = append(ids, sc.Id)
	}
	assert.Contains(t, ids, root)
	assert.Contains(t, ids, child)
}
