package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func TestChain_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := Chain(logger, errors.NewHTTPErrorAdapter(logger))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body.Error)
	require.Equal(t, "internal", body.Code)
}

func TestChain_PassesThrough(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := Chain(logger, errors.NewHTTPErrorAdapter(logger))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
