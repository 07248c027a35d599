package introspect

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/darkelement/perceptia/internal/logger"
)

// newRouter builds the chi router for the introspection server: one
// request-id/recovery/timeout middleware stack in front of the three
// read-only endpoints spec'd for a local developer inspecting a running
// compositor.
//
// Routes:
//   - GET /surfaces - every registered surface, with parent/satellite/state
//   - GET /frames   - the Display/Workspace/Container/Leaf tree
//   - GET /history  - the surface recency list, most-recent-first
func newRouter(h *handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/surfaces", http.StatusTemporaryRedirect)
	})
	r.Get("/surfaces", h.surfaces)
	r.Get("/frames", h.frames)
	r.Get("/history", h.history)

	return r
}

// requestLogger logs every introspection request at DEBUG, since this
// server has no health-check noise to filter out unlike the teacher's API
// request logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger.Debug("introspection request completed",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
