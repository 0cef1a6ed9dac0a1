// Package logger provides structured logging with context extraction.
//
// It extends the standard library's log/slog with automatic context-based
// attribute injection, so cache operations logged deep inside the library
// carry request-scoped values without threading them through every call.
//
// # Basic Usage
//
// Create a logger with context extractors:
//
//	traceExtractor := func(ctx context.Context) (slog.Attr, bool) {
//		if traceID, ok := ctx.Value(traceKey).(string); ok && traceID != "" {
//			return slog.String("trace_id", traceID), true
//		}
//		return slog.Attr{}, false
//	}
//
//	log := logger.New(traceExtractor)
//	log.InfoContext(ctx, "remote tier degraded", slog.String("url", url))
//
// Extractors are called on every log call, ensuring fresh values for
// request-scoped data. Return false to skip the attribute for that entry.
//
// # Handler Decoration
//
// LogHandlerDecorator wraps any slog.Handler to add extraction behavior:
//
//	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
//	log := slog.New(logger.NewLogHandlerDecorator(jsonHandler, extractors...))
//
// NewNope returns a discard logger, the default wherever a logger is
// optional.
package logger
