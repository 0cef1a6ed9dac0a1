// Package redis provides the remote-tier connection layer for the cache
// subsystem, wrapping [github.com/redis/go-redis/v9] with connection
// pooling, startup retry, TLS/AUTH/ACL handling, health checks, and
// graceful shutdown.
//
// # Usage
//
//	client, err := redis.Open(ctx, cfg.RemoteURL,
//	    redis.WithPoolSize(cfg.MaxConnections),
//	    redis.WithTimeouts(cfg.ConnectTimeout, cfg.ConnectTimeout, cfg.ConnectTimeout),
//	    redis.WithSecurity(cfg.Security),
//	)
//
// Both redis:// and rediss:// URL schemes are supported. When a
// SecurityConfig is provided, ACL credentials take precedence over the
// legacy AUTH password, and TLS material is loaded from the configured
// cert, key, and CA paths.
//
// # Health and shutdown
//
// [Healthcheck] returns a func(ctx) error closure compatible with the
// health package's CheckFunc; [Shutdown] returns a hook that closes the
// client during the host application's shutdown sequence.
//
// Errors are wrapped with [errors.Join] onto package sentinels:
// [ErrEmptyConnectionURL], [ErrFailedToParseURL], [ErrConnectionFailed],
// [ErrTLSConfigFailed], [ErrHealthcheckFailed].
package redis
