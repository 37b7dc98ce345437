/*
 * connection.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bufio"
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultNonBlockingTimeout bounds how long a non-blocking SendCommand
// waits for a reply before reporting the round trip as a timed-out
// NetworkError.
// Grounded on py4j's readNonBlockingResponse, which imposes the same
// kind of short SO_TIMEOUT rather than blocking forever.
const DefaultNonBlockingTimeout = 100 * time.Millisecond

// DuplexConnection serves one accepted socket, dispatching inbound
// commands, and doubles as the channel the gateway uses to send
// host-initiated callback commands back down the same socket while a
// command is being handled. Grounded on the single-threaded,
// read-drives-everything shape of a peer connection: one goroutine reads
// the socket for the lifetime of the connection, and SendCommand, called
// from within a command handler running on that same goroutine, is
// allowed to recurse into the dispatcher for nested commands the peer
// interleaves into the reply.
type DuplexConnection struct {
	ID string

	raw        net.Conn
	reader     *bufio.Reader
	writer     *bufio.Writer
	gw         *Gateway
	dispatcher *Dispatcher

	nonBlockingTimeout time.Duration

	writeMux sync.Mutex
	used     int32
}

// NewDuplexConnection wraps an accepted socket.
func NewDuplexConnection(raw net.Conn, gw *Gateway, dispatcher *Dispatcher) *DuplexConnection {
	return &DuplexConnection{
		ID:                 uuid.NewString(),
		raw:                raw,
		reader:             bufio.NewReader(raw),
		writer:             bufio.NewWriter(raw),
		gw:                 gw,
		dispatcher:         dispatcher,
		nonBlockingTimeout: DefaultNonBlockingTimeout,
	}
}

// SetNonBlockingTimeout overrides the read deadline SendCommand applies
// to non-blocking sends. A non-positive value restores the default.
func (self *DuplexConnection) SetNonBlockingTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultNonBlockingTimeout
	}
	self.nonBlockingTimeout = d
}

// Used reports whether this connection has dispatched at least one
// client-initiated command, mirroring the peer protocol's one-shot
// connections: a pool (see PeerClient) must never hand out a used
// connection for a fresh root-level call.
func (self *DuplexConnection) Used() bool {
	return 1 == atomic.LoadInt32(&self.used)
}

// Serve reads and dispatches commands until the peer sends "q", closes
// the socket, or a read fails. It always closes raw before returning.
func (self *DuplexConnection) Serve(ctx context.Context) error {
	defer self.raw.Close()
	ctx = ContextWithConnection(ctx, self)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name, executed, err := self.dispatcher.Dispatch(self.gw, self, self.reader, self.writer)
		if nil != err {
			return err
		}
		if "q" == name {
			return nil
		}
		if executed {
			atomic.StoreInt32(&self.used, 1)
		}
	}
}

// SendCommand writes a fully framed outbound command (caller supplies
// every line, newline-terminated, ending in the terminal "e\n") and
// waits for the matching response line, with its leading OKPrefix or
// ErrorPrefix byte stripped before it is handed back to the caller.
// While waiting it transparently executes any nested commands the peer
// interleaves ahead of its actual reply, per the callback protocol's
// reentrancy rule.
//
// When blocking is false the wait is bounded by nonBlockingTimeout
// instead of running forever: a deadline-exceeded read is reported as a
// NetworkError rather than treated as "no response yet" silently, but
// the read still happens and nested commands that arrive before the
// deadline are still serviced. The deadline is always cleared before
// returning, win or lose, mirroring readNonBlockingResponse restoring
// blocking mode in a finally.
func (self *DuplexConnection) SendCommand(cmd string, blocking bool) (resp string, err error) {
	mode := roundTripMode(blocking)
	defer func() { self.gw.recordRoundTrip(mode, err) }()

	self.writeMux.Lock()
	_, werr := self.writer.WriteString(cmd)
	if nil == werr {
		werr = self.writer.Flush()
	}
	self.writeMux.Unlock()
	if nil != werr {
		return "", MakeNetworkError("send command failed", werr)
	}

	if !blocking {
		if err := self.raw.SetReadDeadline(time.Now().Add(self.nonBlockingTimeout)); nil != err {
			return "", MakeNetworkError("set read deadline failed", err)
		}
		defer self.raw.SetReadDeadline(time.Time{})
	}

	for {
		line, rerr := self.reader.ReadString('\n')
		if nil != rerr {
			if !blocking && isTimeoutErr(rerr) {
				return "", MakeNetworkError("non-blocking read timed out", rerr)
			}
			return "", MakeNetworkError("read response failed", rerr)
		}
		line = trimLine(line)
		if "" == line {
			return "", ErrEmptyResponse
		}
		if isResponseLine(line) {
			return line[1:], nil
		}
		if _, derr := self.dispatcher.dispatchNamed(self.gw, self, line, self.reader, self.writer); nil != derr {
			self.gw.Logger().Warn("nested command failed", "command", line, "error", derr)
		}
	}
}

// roundTripMode labels a callback round-trip for the CallbackRoundTrips
// metric.
func roundTripMode(blocking bool) string {
	if blocking {
		return "blocking"
	}
	return "non-blocking"
}

// isTimeoutErr reports whether err is a net.Error reporting a deadline
// exceeded during a read, as opposed to some other I/O failure.
func isTimeoutErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isResponseLine(line string) bool {
	if "" == line {
		return false
	}
	return OKPrefix == rune(line[0]) || ErrorPrefix == rune(line[0])
}

// connKey is the private context.Context key under which Serve stashes
// the owning DuplexConnection, the thread-affinity substitute mentioned
// in the design notes: Go has no implicit thread-locals, so the
// serving goroutine's identity is threaded explicitly through ctx.
type connKey struct{}

// ContextWithConnection returns a context carrying conn.
func ContextWithConnection(ctx context.Context, conn *DuplexConnection) context.Context {
	return context.WithValue(ctx, connKey{}, conn)
}

// ConnectionFromContext retrieves the DuplexConnection stashed by
// ContextWithConnection, if any.
func ConnectionFromContext(ctx context.Context) (*DuplexConnection, bool) {
	conn, ok := ctx.Value(connKey{}).(*DuplexConnection)
	return conn, ok
}
