package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/health"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/core/router"
)

func serve(h handler.HandlerFunc[*router.Context]) *httptest.ResponseRecorder {
	r := router.New[*router.Context](router.WithErrorHandler[*router.Context](response.ErrorHandler[*router.Context]))
	r.Get("/check", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/check", nil))
	return w
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	w := serve(health.Liveness[*router.Context])
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestNoContent(t *testing.T) {
	t.Parallel()

	w := serve(health.NoContent[*router.Context])
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	fail := func(context.Context) error { return errors.New("auth api down") }
	explode := func(context.Context) error { panic("nil client") }

	tests := []struct {
		name       string
		checks     []func(context.Context) error
		wantStatus int
		wantBody   string
	}{
		{name: "no checks", wantStatus: http.StatusOK, wantBody: "READY"},
		{name: "all pass", checks: []func(context.Context) error{ok, ok}, wantStatus: http.StatusOK, wantBody: "READY"},
		{name: "one fails", checks: []func(context.Context) error{ok, fail}, wantStatus: http.StatusServiceUnavailable},
		{name: "panicking check", checks: []func(context.Context) error{explode, ok}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := serve(health.Readiness[*router.Context](nil, tt.checks...))
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestReadinessRunsChecksConcurrently(t *testing.T) {
	t.Parallel()

	var started sync.WaitGroup
	started.Add(2)
	// Each check waits for the other to start; sequential execution would time out.
	check := func(context.Context) error {
		started.Done()
		done := make(chan struct{})
		go func() { started.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-time.After(time.Second):
			return errors.New("checks ran sequentially")
		}
	}

	w := serve(health.Readiness[*router.Context](nil, check, check))
	assert.Equal(t, http.StatusOK, w.Code)
}
