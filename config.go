/*
 * config.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "time"

// Config holds the settings cmd/py4j-gateway wires into a Gateway and
// Server. Library callers embedding a Gateway directly are free to build
// one by hand instead.
type Config struct {
	// BindAddr is the address the object protocol listens on, e.g.
	// "127.0.0.1:25333".
	BindAddr string

	// CallbackAddr is the peer's callback server address, or empty if
	// the embedding application never calls back into the peer.
	CallbackAddr string

	// AuthToken, if non-empty, is required as the first line of every
	// accepted connection.
	AuthToken string

	// MetricsAddr, if non-empty, serves Prometheus metrics on its own
	// HTTP listener, separate from the object protocol's TCP port.
	MetricsAddr string

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string

	// PoolSize bounds the number of idle callback connections kept open
	// to CallbackAddr.
	PoolSize int

	// DialTimeout holds a bound for dialing the callback server. It is
	// not applied: cmd/py4j-gateway does not pass it on, and
	// ConnectionPool dials with its own fixed 5-second timeout.
	DialTimeout time.Duration

	// NonBlockingTimeout bounds how long a non-blocking callback send
	// waits for a reply before the round trip is reported as timed out.
	// It must be a small positive interval: long enough for a live peer
	// to answer, short enough that the caller is not blocked.
	NonBlockingTimeout time.Duration
}

// DefaultConfig returns a Config with the package's defaults: localhost
// binding on the standard py4j port, an 8-connection callback pool, and
// info-level logging.
func DefaultConfig() Config {
	return Config{
		BindAddr:           "127.0.0.1:25333",
		LogLevel:           "info",
		PoolSize:           8,
		DialTimeout:        5 * time.Second,
		NonBlockingTimeout: DefaultNonBlockingTimeout,
	}
}
