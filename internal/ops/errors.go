package ops

import (
	"fmt"
	"net/http"

	"github.com/ops4go/phacts/internal/errors"
)

// ErrPayloadTooLarge is the cause of a RemoteError for a response body over the size limit.
var ErrPayloadTooLarge = errors.NewStd("response payload too large")

// RemoteError is a failed call to the linked data API. StatusCode is 0 when
// no HTTP response was received.
type RemoteError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error // underlying transport error, if any
}

func (e *RemoteError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: request failed: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("%s: remote returned %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is, or wraps, a RemoteError for a 404 response.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// StatusCode returns the HTTP status of a wrapped RemoteError, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
