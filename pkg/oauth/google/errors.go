package google

import "fmt"

// APIError is a non-2xx response from a Google endpoint
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google oauth: unexpected status %d: %s", e.StatusCode, e.Body)
}
