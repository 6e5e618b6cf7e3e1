package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_SetsRetryability(t *testing.T) {
	assert.True(t, New(ErrCodeUpstreamTimeout, "Yelp", "timed out").Retryable)
	assert.True(t, New(ErrCodeUpstreamUnavailable, "Yelp", "refused").Retryable)
	assert.False(t, New(ErrCodeMissingCredentials, "Yelp", "no key").Retryable)
	assert.False(t, New(ErrCodeMalformedPayload, "Yelp", "bad json").Retryable)
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeUpstreamUnavailable, "SeatGeek", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "UPSTREAM_UNAVAILABLE")
	assert.Contains(t, err.Error(), "SeatGeek")
}

func TestFromHTTPStatus(t *testing.T) {
	assert.Equal(t, ErrCodeUpstreamStatus, FromHTTPStatus("Ticketmaster", http.StatusInternalServerError).Code)
	assert.Equal(t, ErrCodeUpstreamTimeout, FromHTTPStatus("Ticketmaster", http.StatusGatewayTimeout).Code)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeMalformedPayload, CodeOf(New(ErrCodeMalformedPayload, "Yelp", "bad json")))
	assert.Equal(t, ErrCodeInternal, CodeOf(fmt.Errorf("plain")))

	wrapped := fmt.Errorf("fetch: %w", New(ErrCodeUpstreamTimeout, "Yelp", "timeout"))
	assert.Equal(t, ErrCodeUpstreamTimeout, CodeOf(wrapped))
}
