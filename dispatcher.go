/*
 * dispatcher.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 *
 * It is licensed under the MIT license. The full license text can be found
 * in the LICENSE.txt file at the root of this project.
 */

package py4j

import (
	"bufio"
	"fmt"
	"time"
)

// HandlerFunc implements one command group. It owns parsing everything
// after the command-name line up to (and including) the terminal "e"
// line, and is responsible for writing exactly one response line.
//
// conn is nil when a handler runs on behalf of a connection-less unit
// test; handlers that need callback access must tolerate that.
type HandlerFunc func(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error

// Dispatcher routes an inbound command-name line to its HandlerFunc.
// Table lookup is by exact line contents.
type Dispatcher struct {
	table map[string]HandlerFunc

	// StrictUnknownCommand controls the behavior on an unrecognized
	// command name. The reference behavior is to log a
	// warning and write nothing, which can hang a peer waiting for a
	// reply; setting this true instead writes a protocol-error
	// envelope. Default false preserves the historical behavior.
	StrictUnknownCommand bool
}

// NewDispatcher creates a Dispatcher with the mandatory command groups
// registered: call/constructor/field (under "c"), list, map, array, set,
// memory, jvmview, reflection, help, dir, stream, and exception. The
// shutdown command q is not in the table; Dispatch handles it itself.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{table: make(map[string]HandlerFunc)}
	d.Register("c", handleCallFamily)
	d.Register("list", handleList)
	d.Register("map", handleMap)
	d.Register("array", handleArray)
	d.Register("set", handleSet)
	d.Register("memory", handleMemory)
	d.Register("jvmview", handleJVMView)
	d.Register("reflection", handleReflection)
	d.Register("help", handleHelp)
	d.Register("dir", handleDir)
	d.Register("stream", handleStream)
	d.Register("exception", handleException)
	return d
}

// Register adds or replaces the handler for name.
func (self *Dispatcher) Register(name string, handler HandlerFunc) {
	self.table[name] = handler
}

// Lookup returns the handler registered for name.
func (self *Dispatcher) Lookup(name string) (HandlerFunc, bool) {
	h, ok := self.table[name]
	return h, ok
}

// Dispatch reads one command-name line from reader and, if known, runs
// its handler. It reports whether a command was actually executed
// (false for "q" and for unknown names when StrictUnknownCommand is
// false) so the connection's receive loop can decide to keep looping.
func (self *Dispatcher) Dispatch(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) (name string, executed bool, err error) {
	line, err := reader.ReadString('\n')
	if nil != err {
		return "", false, MakeNetworkError("read failed", err)
	}
	name = trimLine(line)

	if "q" == name {
		return name, false, nil
	}

	executed, err = self.dispatchNamed(gw, conn, name, reader, writer)
	return name, executed, err
}

// dispatchNamed runs the handler for an already-read command-name line.
// Shared by Dispatch (the top-level read loop) and DuplexConnection's
// nested-command handling inside SendCommand, where the peer interleaves
// its own commands into the middle of our callback round-trip.
func (self *Dispatcher) dispatchNamed(gw *Gateway, conn *DuplexConnection, name string, reader *bufio.Reader, writer *bufio.Writer) (executed bool, err error) {
	handler, ok := self.table[name]
	if !ok {
		if nil != gw {
			gw.Logger().Warn("unknown command", "command", name)
		}
		if self.StrictUnknownCommand {
			writeLine(writer, fmt.Sprintf("%c%c", ErrorPrefix, ErrKindProtocol))
			return true, nil
		}
		return false, nil
	}

	start := time.Now()
	herr := handler(gw, conn, reader, writer)
	if nil != gw && nil != gw.Metrics() {
		outcome := "ok"
		if nil != herr {
			outcome = "error"
		}
		gw.Metrics().CommandsHandled.WithLabelValues(name, outcome).Inc()
		gw.Metrics().CommandLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	return true, herr
}

func trimLine(line string) string {
	n := len(line)
	for n > 0 && ('\n' == line[n-1] || '\r' == line[n-1]) {
		n--
	}
	return line[:n]
}

func writeLine(writer *bufio.Writer, line string) error {
	if _, err := writer.WriteString(line); nil != err {
		return MakeNetworkError("write failed", err)
	}
	if err := writer.WriteByte('\n'); nil != err {
		return MakeNetworkError("write failed", err)
	}
	return writer.Flush()
}
