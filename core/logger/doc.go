// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a logger from functional options with environment presets:
//
//	log := logger.New(logger.WithDevelopment("dashboard"))       // text, debug
//	log := logger.New(logger.WithProduction("dashboard"))        // JSON, info
//	log := logger.New(logger.WithLevel(slog.LevelWarn), logger.WithOutput(os.Stderr))
//
// Context extractors add request-scoped attributes to every *Context call:
//
//	log := logger.New(
//		logger.WithProduction("dashboard"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			id, ok := ctx.Value(requestIDKey{}).(string)
//			return logger.RequestID(id), ok
//		}),
//	)
//
// Attribute helpers cover the keys used across the module:
//
//	log.Info("identity resolved",
//		logger.Component("supabase"),
//		logger.UserID(user.ID.String()),
//		logger.SessionExpiresAt(session.ExpiresAtTime()),
//	)
//
// Helpers return an empty slog.Attr for nil errors and empty ids, which slog
// omits from output.
package logger
