package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodes(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)

	require.Equal(t, http.StatusOK, a.StatusCodeFor(nil))
	require.Equal(t, http.StatusNotFound, a.StatusCodeFor(NotFoundError("x").Build()))
	require.Equal(t, http.StatusBadRequest, a.StatusCodeFor(ValidationError("x").Build()))
	require.Equal(t, http.StatusUnprocessableEntity, a.StatusCodeFor(ContentError("x").Build()))
	require.Equal(t, http.StatusInternalServerError, a.StatusCodeFor(stderrors.New("x")))
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts/missing", nil)

	a.WriteErrorResponse(rec, req, NotFoundError("post not found").WithContext("slug", "missing").Build())

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "post not found", body.Error)
	require.Equal(t, "not_found", body.Code)
	require.Equal(t, "missing", body.Details["slug"])
}
