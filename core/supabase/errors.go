package supabase

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingURL     = errors.New("supabase: url is required")
	ErrInvalidURL     = errors.New("supabase: invalid url")
	ErrMissingKey     = errors.New("supabase: key is required")
	ErrMissingCookies = errors.New("supabase: cookie methods GetAll and SetAll are required")

	// ErrSessionMissing is returned by calls that need a session when the request has none.
	ErrSessionMissing = errors.New("supabase: auth session missing")
	// ErrInvalidSession is returned when the stored session cannot be decoded.
	// The offending cookies are removed before it is returned.
	ErrInvalidSession = errors.New("supabase: invalid auth session")
	// ErrHealthcheckFailed is returned by Healthcheck checks.
	ErrHealthcheckFailed = errors.New("supabase: auth api is not available")
)

// AuthError is an error response from the auth API.
type AuthError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: auth api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: auth api %d: %s", e.Status, e.Message)
}

// Retryable reports whether the failure is worth retrying later
// (server errors and rate limiting). 4xx answers are final.
func (e *AuthError) Retryable() bool {
	return e.Status >= http.StatusInternalServerError || e.Status == http.StatusTooManyRequests
}

// IsAuthError reports whether err is an *AuthError with one of the given statuses
// (any status when none are given).
func IsAuthError(err error, statuses ...int) bool {
	var aerr *AuthError
	if !errors.As(err, &aerr) {
		return false
	}
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if aerr.Status == s {
			return true
		}
	}
	return false
}

// errorBody covers the error shapes returned by different auth API versions.
type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (b errorBody) toAuthError(status int) *AuthError {
	e := &AuthError{Status: status}

	switch {
	case b.ErrorCode != "":
		e.Code = b.ErrorCode
	case b.Error != "":
		e.Code = b.Error
	default:
		if s, ok := b.Code.(string); ok {
			e.Code = s
		}
	}

	for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
		if m != "" {
			e.Message = m
			break
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
