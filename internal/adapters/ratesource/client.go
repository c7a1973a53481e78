// Package ratesource implements the outbound clients that observe exchange
// rates from public providers, plus a local request-quota wrapper.
package ratesource

import (
	"fmt"
	"net/http"

	"github.com/valutatrade/valutatrade-hub/internal/apperrors"
)

// classifyStatus maps the HTTP status codes shared by every provider onto
// the classified source errors. A nil return means the response is usable.
func classifyStatus(name string, status int) error {
	switch status {
	case http.StatusRequestTimeout:
		return fmt.Errorf("%w: %s timed out serving the request", apperrors.ErrSourceUnreachable, name)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", apperrors.ErrSourceRateLimited, name)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", apperrors.ErrSourceForbidden, name)
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s is temporarily unavailable", apperrors.ErrSourceUnreachable, name)
	}
	if status >= 400 {
		return fmt.Errorf("%w: %s responded with status %d", apperrors.ErrSourceUnreachable, name, status)
	}
	return nil
}
