// Package handlers implements the blogbuilder HTTP API.
package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// writeJSON encodes v into a buffer first so a failed encode never leaves a
// partial response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if p := r.URL.Query().Get("pretty"); p == "1" || p == "true" {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}
