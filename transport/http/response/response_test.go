package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unires/shared/failure"
	"unires/transport/http/response"
)

func TestWithError_Conflict(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithError(recorder, failure.Conflict("resource is already booked", "r-1", "r-2"))

	assert.Equal(t, http.StatusConflict, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "resource is already booked", body["error"])
	assert.Equal(t, "conflict", body["reason"])
	assert.Equal(t, []any{"r-1", "r-2"}, body["refs"])
}

func TestWithError_PlainError(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithError(recorder, errors.New("pq: relation \"reservations\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, recorder.Body.String())
}

func TestWithError_WrappedFailure(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithError(recorder, fmt.Errorf("failed to approve: %w", failure.InvalidState("reservation is not pending")))

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.JSONEq(t,
		`{"error":"failed to approve: reservation is not pending","reason":"invalid_state"}`,
		recorder.Body.String(),
	)
}

func TestWithJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	response.WithJSON(recorder, http.StatusOK, map[string]int{"count": 2})

	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"count":2}}`, recorder.Body.String())
}
