package errors

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

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "with cause",
			err:  NewParsingError("bad header", fmt.Errorf("row 1")),
			want: "[PARSING] bad header: row 1",
		},
		{
			name: "without cause",
			err:  NewAppValidationError("n out of range"),
			want: "[VALIDATION] n out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewStorageError("read failed", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestNewDataSourceError(t *testing.T) {
	err := NewDataSourceError("data/claims.csv", fmt.Errorf("no such file"))

	assert.Equal(t, ErrTypeDataSource, err.Type)
	assert.Contains(t, err.Error(), "claims data source not found: data/claims.csv")
}

func TestErrorHandler_DataSourceNotice(t *testing.T) {
	handler := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/claims/kpis", nil)

	handler.HandleError(w, r, NewDataSourceError("data/claims.csv", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DATA_SOURCE_NOT_FOUND", resp.Error.ErrorCode)
}

func TestErrorHandler_GenericProcessingError(t *testing.T) {
	handler := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/claims", nil)

	handler.HandleError(w, r, fmt.Errorf("summarize blew up"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", resp.Error.ErrorCode)
	assert.Equal(t, "An error occurred while processing claims data", resp.Error.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
