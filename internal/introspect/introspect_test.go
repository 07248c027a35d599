package introspect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darkelement/perceptia/internal/exhibitor"
	"github.com/darkelement/perceptia/internal/perceptron"
	"github.com/darkelement/perceptia/internal/qualia"
	"github.com/darkelement/perceptia/internal/qualia/ids"
)

func newTestHandler(t *testing.T) (*handler, *qualia.Coordinator) {
	t.Helper()
	coord := qualia.New(qualia.NewCounterAllocator(), nil)
	comp := exhibitor.NewCompositor(coord, exhibitor.StrategyVertical)
	comp.AddOutput(perceptron.OutputDescriptor{
		Id:   1,
		Name: "test-output",
		Area: ids.Area{Size: ids.Size{Width: 200, Height: 100}},
	})
	return newHandler(coord, comp), coord
}

func TestSurfacesEndpointListsRegisteredSurfaces(t *testing.T) {
	h, coord := newTestHandler(t)
	sid := coord.CreateSurface()

	req := httptest.NewRequest(http.MethodGet, "/surfaces", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string        `json:"status"`
		Data   []surfaceView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, sid, body.Data[0].Id)
}

func TestFramesEndpointReturnsTreeRootedAtRoot(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/frames", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string    `json:"status"`
		Data   frameView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Root", body.Data.Mode)
	require.Len(t, body.Data.Children, 1)
	assert.Equal(t, "Display", body.Data.Children[0].Mode)
}

func TestHistoryEndpointReflectsManagedSurfaces(t *testing.T) {
	h, coord := newTestHandler(t)
	sid := coord.CreateSurface()
	mpid := coord.CreatePoolFromBuffer(make([]byte, 64))
	mvid, err := coord.CreateMemoryView(mpid, 0, 8, 8, 8)
	require.NoError(t, err)
	coord.Attach(mvid, sid)
	coord.ShowSurface(context.Background(), sid, qualia.InShell)
	coord.CommitSurface(context.Background(), sid)

	h.compositor.ManageSurface(context.Background(), sid)

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string          `json:"status"`
		Data   []ids.SurfaceId `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, sid, body.Data[0])
}
