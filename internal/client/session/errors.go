package session

import "fmt"

// AuthError classifies why no usable credential could be produced.
// Compare with errors.Is against the Err* values; the wrapped cause, if any,
// is reachable through errors.Unwrap.
type AuthError struct {
	Kind string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is matches any AuthError of the same kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotAuthenticated = &AuthError{Kind: "not authenticated"}
	ErrCorruptToken     = &AuthError{Kind: "stored token is corrupt"}
	ErrRefreshFailed    = &AuthError{Kind: "token refresh failed"}
)

func wrap(kind *AuthError, err error) *AuthError {
	return &AuthError{Kind: kind.Kind, Err: err}
}
