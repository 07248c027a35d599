package exhibitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkelement/perceptia/internal/dharma"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

type recordingGateway struct {
	NopGateway
	mu            sync.Mutex
	outputsFound  []perceptron.OutputDescriptor
	reconfigured  int
}

func (g *recordingGateway) OnOutputFound(d perceptron.OutputDescriptor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputsFound = append(g.outputsFound, d)
}

func (g *recordingGateway) OnSurfaceReconfigured(sid ids.SurfaceId, size ids.Size, state ids.SurfaceState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reconfigured++
}

func newTestExhibitor(t *testing.T) (*Exhibitor, *qualia.Bus, *qualia.Coordinator, *recordingGateway) {
	t.Helper()
	bus := dharma.New[perceptron.SignalId, perceptron.Perceptron](8)
	coord := qualia.New(qualia.NewCounterAllocator(), bus)
	compositor := NewCompositor(coord, StrategyVertical)
	gw := &recordingGateway{}
	return New(bus, compositor, gw), bus, coord, gw
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestExhibitorRunReactsToOutputFoundAndSurfaceReady(t *testing.T) {
	ex, bus, coord, gw := newTestExhibitor(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ex.Run(ctx) }()

	desc := perceptron.OutputDescriptor{Id: 1, Name: "out0", Area: ids.Area{Size: ids.Size{Width: 100, Height: 100}}}
	bus.Emit(perceptron.OutputFound, perceptron.NewOutputFound(desc))

	waitFor(t, func() bool {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		return len(gw.outputsFound) == 1
	})

	sid := coord.CreateSurface()
	mpid := coord.CreatePoolFromBuffer(make([]byte, 64))
	mvid, err := coord.CreateMemoryView(mpid, 0, 8, 8, 8)
	require.NoError(t, err)
	coord.Attach(mvid, sid)
	coord.ShowSurface(context.Background(), sid, qualia.InShell)
	coord.CommitSurface(context.Background(), sid) // emits SURFACE_READY via the bus

	waitFor(t, func() bool {
		return ex.compositor.History().Len() == 1
	})
	assert.Equal(t, []ids.SurfaceId{sid}, ex.compositor.History().List())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestExhibitorRunStopsOnTerminate(t *testing.T) {
	ex, bus, _, _ := newTestExhibitor(t)

	done := make(chan error, 1)
	go func() { done <- ex.Run(context.Background()) }()

	// Give Run a moment to register its control receiver before terminating.
	time.Sleep(50 * time.Millisecond)
	bus.Terminate()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Terminate")
	}
}
