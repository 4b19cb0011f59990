package backend

import (
	"fmt"

	"github.com/futsalhub/clubadmin/internal/domain"
)

// APIError is a request the backend understood and refused, either with a
// non-2xx status or with success=false in the response envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend rejected request (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("backend rejected request (status %d): %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, domain.ErrRejected) hold for every APIError.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrRejected
}
