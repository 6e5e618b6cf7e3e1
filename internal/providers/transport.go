package providers

import (
	"context"
	"strings"

	apperrors "activity-aggregator/internal/common/errors"
)

// ClassifyTransportError distinguishes a deadline hit from other network
// failures so adapter log lines carry the right code.
func ClassifyTransportError(provider string, ctx context.Context, err error) *apperrors.ProviderError {
	if ctx.Err() == context.DeadlineExceeded ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout") {
		return apperrors.Wrap(apperrors.ErrCodeUpstreamTimeout, provider, err)
	}
	return apperrors.Wrap(apperrors.ErrCodeUpstreamUnavailable, provider, err)
}
