package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cachekit/pkg/logger"
)

type ctxKey string

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.NotNil(t, log)
	log.Info("discarded")
}

func TestLogHandlerDecorator(t *testing.T) {
	t.Parallel()

	t.Run("injects extracted attributes", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, nil)

		extractor := func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(ctxKey("trace")).(string); ok {
				return slog.String("trace_id", v), true
			}
			return slog.Attr{}, false
		}

		log := slog.New(logger.NewLogHandlerDecorator(handler, extractor))

		ctx := context.WithValue(context.Background(), ctxKey("trace"), "abc-123")
		log.InfoContext(ctx, "hello")

		require.Contains(t, buf.String(), `"trace_id":"abc-123"`)
	})

	t.Run("skips attributes when extractor declines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, nil)

		extractor := func(context.Context) (slog.Attr, bool) {
			return slog.Attr{}, false
		}

		log := slog.New(logger.NewLogHandlerDecorator(handler, extractor))
		log.InfoContext(context.Background(), "hello")

		require.NotContains(t, buf.String(), "trace_id")
	})

	t.Run("nil extractors are filtered", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := slog.New(logger.NewLogHandlerDecorator(slog.NewJSONHandler(&buf, nil), nil))
		log.InfoContext(context.Background(), "hello")

		require.Contains(t, buf.String(), `"msg":"hello"`)
	})
}
