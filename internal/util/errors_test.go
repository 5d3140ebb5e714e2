package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIs(t *testing.T) {
	parse := ParseError(errors.New("bad json"), "Failed to parse")
	assert.True(t, errors.Is(parse, ErrParse))
	assert.True(t, errors.Is(parse, ErrGeneration))
	assert.False(t, errors.Is(parse, ErrNotFound))

	unavailable := ServiceUnavailableError(nil, "down")
	assert.True(t, errors.Is(unavailable, ErrGeneration))

	wrapped := fmt.Errorf("loading: %w", NotFoundError("Skill not found with id: %d", 3))
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	cause := errors.New("driver: bad connection")
	assert.True(t, errors.Is(InternalError(cause, "db"), cause))
}

func TestKindStatus(t *testing.T) {
	tests := map[ErrorKind]int{
		KindNotFound:           http.StatusNotFound,
		KindBadRequest:         http.StatusBadRequest,
		KindUnauthorized:       http.StatusUnauthorized,
		KindForbidden:          http.StatusForbidden,
		KindConflict:           http.StatusConflict,
		KindGenerationFailure:  http.StatusServiceUnavailable,
		KindParseFailure:       http.StatusServiceUnavailable,
		KindServiceUnavailable: http.StatusServiceUnavailable,
		KindTimeout:            http.StatusGatewayTimeout,
		KindInternal:           http.StatusInternalServerError,
	}
	for kind, status := range tests {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", NotFoundError("Skill not found with id: %d", 9), 404, "Skill not found with id: 9"},
		{"parse failure", ParseError(errors.New("eof"), "Failed to parse quiz response"), 503, "Failed to parse quiz response"},
		{"upstream hidden", ServiceUnavailableError(errors.New("openai: 502 from 10.0.0.7"), "Failed to generate quiz"), 503, serviceUnavailableMessage},
		{"internal hidden", InternalError(errors.New("dsn leaked"), "db"), 500, "An unexpected error occurred. Please contact support."},
		{"foreign error", errors.New("boom"), 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/quiz/results/9", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, http.StatusText(tt.status), body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, "/api/quiz/results/9", body.Path)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}
