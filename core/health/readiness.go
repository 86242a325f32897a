package health

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/sbauth/core/handler"
	"github.com/dmitrymomot/sbauth/core/logger"
	"github.com/dmitrymomot/sbauth/core/response"
	"github.com/dmitrymomot/sbauth/pkg/async"
)

// Readiness runs every check concurrently and waits for all of them. It
// answers "READY" when all pass and 503 Service Unavailable when any fails.
// A panicking check counts as failed. A nil log discards failures.
func Readiness[C handler.Context](log *slog.Logger, checks ...func(context.Context) error) handler.HandlerFunc[C] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx C) handler.Response {
		futures := make([]*async.ExecFuture, len(checks))
		for i, check := range checks {
			futures[i] = async.Exec(ctx, check, runCheck)
		}
		if err := async.ExecAll(futures...); err != nil {
			log.ErrorContext(ctx, "readiness check failed", logger.Component("health"), logger.Error(err))
			return response.Error(response.ErrServiceUnavailable)
		}
		return response.String("READY")
	}
}

func runCheck(ctx context.Context, check func(context.Context) error) error {
	return check(ctx)
}
