/*
 * pool.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bufio"
	"net"
	"strconv"
	"sync"
	"time"
)

// PeerClient is the gateway's view of the peer's callback server: the
// side the host dials to issue a host-initiated call into the connected
// process (as opposed to DuplexConnection, which serves calls the peer
// initiates into the host). A Gateway holds exactly one PeerClient, or
// nil if the embedding application never calls back into the peer.
type PeerClient interface {
	// SendCommand writes a fully framed command and waits for its response
	// line, returned without its leading prefix byte; when blocking is
	// false the wait is bounded by a read timeout.
	SendCommand(cmd string, blocking bool) (string, error)

	// Shutdown closes every pooled connection.
	Shutdown()

	// CopyWith returns a new PeerClient addressing a different callback
	// endpoint, sharing this one's pool size and dial timeout.
	CopyWith(address string, port int) PeerClient

	Address() string
	Port() int
}

// pooledConn is one dialed socket to the peer's callback server.
type pooledConn struct {
	conn   net.Conn
	reader *bufio.Reader
	writer *bufio.Writer
}

// ConnectionPool is the default PeerClient: an LRU pool of sockets to one
// callback server address, with a retry-once policy when an idle socket
// turns out to be stale (the peer closed it while it sat unused).
type ConnectionPool struct {
	address            string
	port               int
	maxSize            int
	dialTimeout        time.Duration
	nonBlockingTimeout time.Duration
	metrics            *Metrics

	mux  sync.Mutex
	idle []*pooledConn
}

// NewConnectionPool creates a pool dialing address:port on demand, never
// holding more than maxSize idle connections at once.
func NewConnectionPool(address string, port, maxSize int) *ConnectionPool {
	if maxSize <= 0 {
		maxSize = 8
	}
	return &ConnectionPool{
		address:            address,
		port:               port,
		maxSize:            maxSize,
		dialTimeout:        5 * time.Second,
		nonBlockingTimeout: DefaultNonBlockingTimeout,
	}
}

func (self *ConnectionPool) Address() string { return self.address }
func (self *ConnectionPool) Port() int       { return self.port }

// SetNonBlockingTimeout overrides the read deadline exchange applies to
// non-blocking sends. A non-positive value restores the default.
func (self *ConnectionPool) SetNonBlockingTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultNonBlockingTimeout
	}
	self.mux.Lock()
	self.nonBlockingTimeout = d
	self.mux.Unlock()
}

// SetMetrics wires the pool to the gateway's metrics sink, so that
// host-initiated callback round-trips are counted alongside peer-
// initiated ones. A pool with no metrics set records nothing.
func (self *ConnectionPool) SetMetrics(metrics *Metrics) {
	self.metrics = metrics
}

// recordRoundTrip increments CallbackRoundTrips, if a metrics sink is
// set, labeled by mode and outcome the same way DuplexConnection does.
func (self *ConnectionPool) recordRoundTrip(mode string, err error) {
	if nil == self.metrics {
		return
	}
	outcome := "ok"
	if nil != err {
		outcome = "error"
		if netErr, ok := err.(Err); ok && isTimeoutErr(netErr.Nested()) {
			outcome = "timeout"
		}
	}
	self.metrics.CallbackRoundTrips.WithLabelValues(mode, outcome).Inc()
}

func (self *ConnectionPool) dial() (*pooledConn, error) {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(self.address, strconv.Itoa(self.port)), self.dialTimeout)
	if nil != err {
		return nil, MakeNetworkError("dial callback server failed", err)
	}
	return &pooledConn{conn: conn, reader: bufio.NewReader(conn), writer: bufio.NewWriter(conn)}, nil
}

// borrow pops the most recently returned idle connection, or dials a
// fresh one if the pool is empty. fresh reports whether the connection
// was just dialed (a freshly dialed connection is never retried on
// failure — a second consecutive dial failure is a real outage, not
// staleness).
func (self *ConnectionPool) borrow() (pc *pooledConn, fresh bool, err error) {
	self.mux.Lock()
	if n := len(self.idle); n > 0 {
		pc = self.idle[n-1]
		self.idle = self.idle[:n-1]
		self.mux.Unlock()
		return pc, false, nil
	}
	self.mux.Unlock()

	pc, err = self.dial()
	return pc, true, err
}

// release returns pc to the idle pool, evicting the oldest idle
// connection if the pool is already at capacity.
func (self *ConnectionPool) release(pc *pooledConn) {
	self.mux.Lock()
	defer self.mux.Unlock()
	if len(self.idle) >= self.maxSize {
		evicted := self.idle[0]
		self.idle = self.idle[1:]
		evicted.conn.Close()
	}
	self.idle = append(self.idle, pc)
}

func (self *ConnectionPool) discard(pc *pooledConn) {
	pc.conn.Close()
}

// SendCommand borrows a connection, writes cmd, and reads one response
// line (bounded by the non-blocking timeout when blocking is false). A
// failure on a reused idle connection is retried once against a freshly
// dialed connection.
func (self *ConnectionPool) SendCommand(cmd string, blocking bool) (string, error) {
	return self.sendWithRetry(cmd, blocking, true)
}

func (self *ConnectionPool) sendWithRetry(cmd string, blocking, allowRetry bool) (string, error) {
	var pc *pooledConn
	var fresh bool
	var err error
	if allowRetry {
		pc, fresh, err = self.borrow()
	} else {
		pc, err = self.dial()
		fresh = true
	}
	if nil != err {
		return "", err
	}

	resp, err := self.exchange(pc, cmd, blocking)
	if nil != err {
		self.discard(pc)
		if allowRetry && !fresh {
			return self.sendWithRetry(cmd, blocking, false)
		}
		self.recordRoundTrip(roundTripMode(blocking), err)
		return "", err
	}

	self.release(pc)
	self.recordRoundTrip(roundTripMode(blocking), nil)
	return resp, nil
}

// exchange writes cmd and, blocking or not, waits for the reply line,
// stripping its leading OKPrefix/ErrorPrefix byte before returning it.
// A non-blocking exchange bounds the wait with a read deadline instead
// of skipping the read outright: the deadline is always cleared before
// returning, and a deadline-exceeded read is reported as a NetworkError
// like any other failed read, not silently swallowed.
func (self *ConnectionPool) exchange(pc *pooledConn, cmd string, blocking bool) (string, error) {
	if _, err := pc.writer.WriteString(cmd); nil != err {
		return "", MakeNetworkError("write callback command failed", err)
	}
	if err := pc.writer.Flush(); nil != err {
		return "", MakeNetworkError("write callback command failed", err)
	}

	if !blocking {
		self.mux.Lock()
		timeout := self.nonBlockingTimeout
		self.mux.Unlock()
		if err := pc.conn.SetReadDeadline(time.Now().Add(timeout)); nil != err {
			return "", MakeNetworkError("set read deadline failed", err)
		}
		defer pc.conn.SetReadDeadline(time.Time{})
	}

	line, err := pc.reader.ReadString('\n')
	if nil != err {
		if !blocking && isTimeoutErr(err) {
			return "", MakeNetworkError("non-blocking callback read timed out", err)
		}
		return "", MakeNetworkError("read callback response failed", err)
	}
	line = trimLine(line)
	if "" == line {
		return "", ErrEmptyResponse
	}
	return line[1:], nil
}

// Shutdown closes every idle connection. An in-flight borrow is closed
// if it is discarded; one returned through release afterwards joins the
// (now empty) idle pool and stays open.
func (self *ConnectionPool) Shutdown() {
	self.mux.Lock()
	defer self.mux.Unlock()
	for _, pc := range self.idle {
		pc.conn.Close()
	}
	self.idle = nil
}

// CopyWith returns a fresh pool pointed at a different callback address,
// used when the peer's callback server moves (e.g. a forked worker
// process reports its own ephemeral port).
func (self *ConnectionPool) CopyWith(address string, port int) PeerClient {
	cp := NewConnectionPool(address, port, self.maxSize)
	cp.dialTimeout = self.dialTimeout
	cp.nonBlockingTimeout = self.nonBlockingTimeout
	cp.metrics = self.metrics
	return cp
}

var _ PeerClient = (*ConnectionPool)(nil)
