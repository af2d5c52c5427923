package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteError(t *testing.T) {
	t.Run("validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, errValidation("name is required"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, CodeValidation, body["code"])
		assert.Equal(t, "name is required", body["error"])
	})

	t.Run("not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, errNotFound("asset not found"))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeNotFound, decodeErrorBody(t, w)["code"])
	})

	t.Run("conflict with domain code", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, errConflict(CodeAssetOnLoan, "asset already has an open assignment"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, CodeAssetOnLoan, decodeErrorBody(t, w)["code"])
	})

	t.Run("wrapped domain error unwraps", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, fmt.Errorf("store: %w", errConflict(CodeAlreadyReturned, "assignment was already returned")))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, CodeAlreadyReturned, decodeErrorBody(t, w)["code"])
	})

	t.Run("unknown error is opaque internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeErrorBody(t, w)
		assert.Equal(t, CodeInternal, body["code"])
		assert.NotContains(t, body["error"], "pq:")
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.True(t, isUniqueViolation(errors.New(`pq: duplicate key value violates unique constraint "assets_serial_number_key"`)))
	assert.True(t, isUniqueViolation(errors.New(`ERROR: duplicate key value (SQLSTATE 23505)`)))
}
