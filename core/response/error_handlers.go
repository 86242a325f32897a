package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/router"
)

type statusCoder interface {
	StatusCode() int
}

// toHTTPError converts any error to an HTTPError, keeping the original as cause.
func toHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCoder
	switch {
	case errors.Is(err, router.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, router.ErrMethodNotAllowed):
		status = http.StatusMethodNotAllowed
	case errors.As(err, &sc):
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = ErrInternalServerError
	}
	return base.WithError(err)
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as JSON HTTPError bodies.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	httpErr := toHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}
