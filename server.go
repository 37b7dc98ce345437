/*
 * server.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"context"
	"crypto/subtle"
	"net"
	"sync"
	"time"
)

// Server accepts TCP connections and binds each to a DuplexConnection
// running the command dispatcher. One Server serves exactly one Gateway.
type Server struct {
	gw         *Gateway
	dispatcher *Dispatcher
	authToken  string

	nonBlockingTimeout time.Duration

	mux       sync.Mutex
	listeners []Listener
	listener  net.Listener
	wg        sync.WaitGroup
}

// NewServer creates a Server. authToken, if non-empty, is compared
// against the first line every accepted connection must send before any
// command is dispatched; a mismatch closes the connection silently, the
// same way an unrecognized command is silently dropped.
func NewServer(gw *Gateway, dispatcher *Dispatcher, authToken string) *Server {
	if nil == dispatcher {
		dispatcher = NewDispatcher()
	}
	return &Server{gw: gw, dispatcher: dispatcher, authToken: authToken, nonBlockingTimeout: DefaultNonBlockingTimeout}
}

// SetNonBlockingTimeout overrides the read deadline every connection
// this Server accepts applies to its non-blocking SendCommand calls.
func (self *Server) SetNonBlockingTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultNonBlockingTimeout
	}
	self.nonBlockingTimeout = d
}

// AddListener registers l for connection lifecycle notifications. Safe
// to call before or after ListenAndServe.
func (self *Server) AddListener(l Listener) {
	self.mux.Lock()
	defer self.mux.Unlock()
	self.listeners = append(self.listeners, l)
}

// ListenAndServe binds addr and serves until ctx is canceled or Close is
// called. It blocks until every accepted connection's goroutine exits.
func (self *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if nil != err {
		return MakeNetworkError("listen failed", err)
	}

	self.mux.Lock()
	self.listener = ln
	self.mux.Unlock()

	self.gw.Startup()
	self.notifyStarted()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if nil != err {
			self.wg.Wait()
			self.gw.Shutdown()
			self.notifyStopped()
			if nil != ctx.Err() {
				return nil
			}
			return MakeNetworkError("accept failed", err)
		}

		self.wg.Add(1)
		go self.serveConn(ctx, conn)
	}
}

// Close stops accepting new connections.
func (self *Server) Close() error {
	self.mux.Lock()
	defer self.mux.Unlock()
	if nil == self.listener {
		return nil
	}
	return self.listener.Close()
}

func (self *Server) serveConn(ctx context.Context, raw net.Conn) {
	defer self.wg.Done()

	if "" != self.authToken {
		if !self.authenticate(raw) {
			raw.Close()
			return
		}
	}

	if nil != self.gw.Metrics() && nil != self.gw.Metrics().ConnectionsTotal {
		self.gw.Metrics().ConnectionsTotal.Inc()
	}

	conn := NewDuplexConnection(raw, self.gw, self.dispatcher)
	conn.SetNonBlockingTimeout(self.nonBlockingTimeout)
	if err := conn.Serve(ctx); nil != err {
		self.gw.Logger().Warn("connection ended", "connection", conn.ID, "error", err)
	}
	self.notifyStopped2(conn)
}

func (self *Server) authenticate(raw net.Conn) bool {
	reader := make([]byte, 0, 128)
	buf := make([]byte, 1)
	for {
		n, err := raw.Read(buf)
		if nil != err || 0 == n {
			return false
		}
		if '\n' == buf[0] {
			break
		}
		reader = append(reader, buf[0])
		if len(reader) > 4096 {
			return false
		}
	}
	token := trimLine(string(reader))
	return 1 == subtle.ConstantTimeCompare([]byte(token), []byte(self.authToken))
}

func (self *Server) notifyStarted() {
	self.mux.Lock()
	listeners := append([]Listener(nil), self.listeners...)
	self.mux.Unlock()
	for _, l := range listeners {
		self.guard(func() { l.ServerStarted() })
	}
}

func (self *Server) notifyStopped() {
	self.mux.Lock()
	listeners := append([]Listener(nil), self.listeners...)
	self.mux.Unlock()
	for _, l := range listeners {
		self.guard(func() { l.ServerStopped() })
	}
}

func (self *Server) notifyStopped2(conn *DuplexConnection) {
	self.mux.Lock()
	listeners := append([]Listener(nil), self.listeners...)
	self.mux.Unlock()
	for _, l := range listeners {
		self.guard(func() { l.ConnectionStopped(conn) })
	}
}

// guard runs f, recovering and logging a panic so one misbehaving
// listener cannot take down the accept loop or another listener.
func (self *Server) guard(f func()) {
	defer func() {
		if r := recover(); nil != r {
			self.gw.Logger().Error("listener panicked", "panic", r)
		}
	}()
	f()
}
