package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/hogwarts/internal/checksum"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

// writeJSONWithETag encodes v, tags it with its digest and answers 304 when
// the client already holds the same representation.
func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		WriteError(w, r, err)
		return
	}
	tag := checksum.ETag(buf.Bytes())
	w.Header().Set("ETag", tag)
	if checksum.Matches(r.Header.Get("If-None-Match"), tag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
