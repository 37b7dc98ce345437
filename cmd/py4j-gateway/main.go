/*
 * main.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

// py4j-gateway runs a standalone object gateway: it binds the wire
// protocol's TCP port, optionally an HTTP port for Prometheus metrics,
// and serves until interrupted. It registers no entry point of its own;
// embed package py4j directly when the entry point needs to be a
// specific application object.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/mucharafal/py4j"
)

func main() {
	if err := run(); nil != err {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := py4j.DefaultConfig()

	var port int
	var bindHost string

	flagSet := pflag.NewFlagSet("py4j-gateway", pflag.ContinueOnError)
	flagSet.StringVar(&bindHost, "bind", "127.0.0.1", "address to bind the object protocol to")
	flagSet.IntVar(&port, "port", 25333, "port to bind the object protocol to")
	flagSet.StringVar(&cfg.CallbackAddr, "callback-addr", "", "peer callback server address (host:port); empty disables callbacks")
	flagSet.StringVar(&cfg.AuthToken, "auth-token", "", "shared token required as the first line of every connection")
	flagSet.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "address to serve Prometheus metrics on; empty disables metrics HTTP")
	flagSet.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flagSet.IntVar(&cfg.PoolSize, "pool-size", cfg.PoolSize, "max idle callback connections kept open")
	flagSet.DurationVar(&cfg.NonBlockingTimeout, "nonblocking-timeout", cfg.NonBlockingTimeout, "read deadline for non-blocking callback sends")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); nil != err {
		if pflag.ErrHelp == err {
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}

	cfg.BindAddr = net.JoinHostPort(bindHost, strconv.Itoa(port))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	var peer py4j.PeerClient
	if "" != cfg.CallbackAddr {
		host, portStr, err := net.SplitHostPort(cfg.CallbackAddr)
		if nil != err {
			return fmt.Errorf("bad callback-addr: %w", err)
		}
		callbackPort, err := strconv.Atoi(portStr)
		if nil != err {
			return fmt.Errorf("bad callback-addr port: %w", err)
		}
		pool := py4j.NewConnectionPool(host, callbackPort, cfg.PoolSize)
		pool.SetNonBlockingTimeout(cfg.NonBlockingTimeout)
		peer = pool
	}

	gw := py4j.NewGateway(nil, nil, peer)
	gw.SetLogger(logger)

	metrics := py4j.NewMetrics()
	metrics.BindRegistrySize(gw.Registry())
	gw.SetMetrics(metrics)
	if pool, ok := peer.(*py4j.ConnectionPool); ok {
		pool.SetMetrics(metrics)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	if "" != cfg.MetricsAddr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		httpServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			if err := httpServer.ListenAndServe(); nil != err && http.ErrServerClosed != err {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := py4j.NewServer(gw, py4j.NewDispatcher(), cfg.AuthToken)
	server.SetNonBlockingTimeout(cfg.NonBlockingTimeout)
	logger.Info("starting gateway", "bind", cfg.BindAddr)
	return server.ListenAndServe(ctx, cfg.BindAddr)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
