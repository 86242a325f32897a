package health

import (
	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/response"
)

// Liveness reports that the process is running. Always "ALIVE" with 200 OK.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}

// NoContent returns 204 without a body.
func NoContent[C handler.Context](C) handler.Response {
	return response.NoContent()
}
