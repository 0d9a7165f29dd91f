package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NewUpstreamError("bad input", http.StatusUnprocessableEntity)
	assert.Equal(t, "upstream: bad input (HTTP 422)", err.Error())

	err = NewInternalError("failed to clear stored task", stderrors.New("disk full"))
	assert.Equal(t, "internal: failed to clear stored task", err.Error())
}

func TestGetStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, GetStatusCode(NewUpstreamError("x", 500)))
	assert.Equal(t, http.StatusServiceUnavailable, GetStatusCode(NewNetworkError("x", nil)))
	assert.Equal(t, http.StatusBadRequest, GetStatusCode(fmt.Errorf("wrapped: %w", NewValidationError("x", nil))))
	assert.Equal(t, http.StatusInternalServerError, GetStatusCode(stderrors.New("plain")))
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(NewNetworkError("down", nil), ErrorTypeNetwork))
	assert.False(t, IsType(NewNetworkError("down", nil), ErrorTypeUpstream))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeNetwork))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "bad input", UserMessage(NewUpstreamError("bad input", 400)))
	assert.Equal(t, "connection refused", UserMessage(stderrors.New("connection refused")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := NewNetworkError("extraction service unreachable", cause)
	assert.ErrorIs(t, err, cause)
}
