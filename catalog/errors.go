// Catalog error classification. Sentinel errors let callers use
// errors.Is for typed assertions rather than matching on codes inline.
package catalog

import (
	"errors"

	"github.com/crozier-io/crozier/query"
	"github.com/crozier-io/crozier/types"
)

// Sentinel errors for session failure classification.
var (
	// ErrAuth indicates the authentication handshake was rejected.
	ErrAuth = errors.New("authentication failed")

	// ErrNetwork indicates a transport-level failure (dial, read, write).
	ErrNetwork = errors.New("network error")

	// ErrClosed indicates use of a session after Close.
	ErrClosed = errors.New("session is closed")
)

// SessionError wraps an underlying error with connection-level
// classification. Connection-level failures are fatal to a whole run,
// unlike per-item remote status errors.
type SessionError struct {
	Kind error
	Op   string
	Err  error
}

func (e *SessionError) Error() string {
	return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error { return e.Err }

// Is reports whether the error matches the target sentinel.
func (e *SessionError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// IsConnectionError reports whether err is fatal to the whole run:
// an authentication or transport failure rather than a per-item remote
// status.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrAuth) || errors.Is(err, ErrNetwork) || errors.Is(err, ErrClosed)
}

// statusError converts a non-zero remote status into an error. The code
// and message pass through verbatim; the distinct "no rows" status maps
// to query.ErrNoRows for pagination termination.
func statusError(status int32, message string) error {
	if status == 0 {
		return nil
	}
	if status == types.CodeNoRows {
		return query.ErrNoRows
	}
	return types.NewError(status, "%s", message)
}
