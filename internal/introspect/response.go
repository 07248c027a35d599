package introspect

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/darkelement/perceptia/internal/logger"
)

// response is the standard envelope every introspection endpoint replies
// with, for a consistent shape regardless of what Data holds.
type response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// writeJSON encodes data to a buffer first so an encoding failure can still
// produce an error response instead of a half-written body.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("failed to encode introspection response", logger.Err(err))
		http.Error(w, `{"status":"error","error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func ok(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, response{Status: "ok", Data: data})
}
