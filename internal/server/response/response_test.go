package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/hangar/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"message": "success"})
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, Error{Code: "TEST_ERROR", Message: "Test error message", Details: "Additional details"}, *resp.Error)
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, Success(map[string]string{"test": "data"}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"test":"data"},"error":null}`, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
		code   string
	}{
		{"BadRequest", func(w http.ResponseWriter) { BadRequest(w, "bad", "") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"Unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "no", "") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"NotFound", func(w http.ResponseWriter) { NotFound(w, "missing", "") }, http.StatusNotFound, "NOT_FOUND"},
		{"MethodNotAllowed", func(w http.ResponseWriter) { MethodNotAllowed(w, "PUT") }, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"UnprocessableEntity", func(w http.ResponseWriter) { UnprocessableEntity(w, "bad", "") }, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"RateLimited", func(w http.ResponseWriter) { RateLimited(w, "slow down") }, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"InternalError", func(w http.ResponseWriter) { InternalError(w, fmt.Errorf("boom")) }, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"ServiceUnavailable", func(w http.ResponseWriter) { ServiceUnavailable(w, "later") }, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, fmt.Errorf("database password is hunter2"))
	assert.NotContains(t, w.Body.String(), "hunter2")
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &errors.NotFoundError{Resource: "bundle", ID: "SWZ99"}, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", &errors.NotFoundError{Resource: "item", ID: "pilot:nobody"}), http.StatusNotFound},
		{"validation", errors.NewValidationError("target", "planet", "unknown target"), http.StatusBadRequest},
		{"parse", errors.NewParseError("json", "", "unexpected end of input", nil), http.StatusBadRequest},
		{"load", errors.NewLoadError("bundles", "SWZ01 lists unknown item"), http.StatusServiceUnavailable},
		{"other", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Nil(t, decode(t, w).Data)
		})
	}
}
