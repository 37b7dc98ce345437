/*
 * commands_helpers.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Codec is the boundary between the wire format (C1) and the command
// handlers (C4/C5): handlers go through it to decode an argument list or
// encode a return value rather than touching ReadLines/DecodeArguments/
// EncodeArgument themselves.
type Codec struct{}

// DecodeArgs reads request lines up to the terminal "e" line from r and
// decodes each into an Argument.
func (Codec) DecodeArgs(r io.Reader) ([]Argument, error) {
	lines, err := ReadLines(asBufioReader(r))
	if nil != err {
		return nil, err
	}
	return DecodeArguments(lines)
}

// EncodeReturn classifies result against reg and writes its response
// line to w, newline-terminated, flushing if w needed its own buffer.
func (Codec) EncodeReturn(w io.Writer, reg *Registry, result interface{}) error {
	ret := Classify(reg, result)
	bw, fresh := asBufioWriter(w)
	if err := writeLine(bw, EncodeReturn(ret)); nil != err {
		return err
	}
	if fresh {
		return bw.Flush()
	}
	return nil
}

// asBufioReader avoids a redundant wrapping allocation when r is already
// a *bufio.Reader, which is the only kind of io.Reader a command handler
// ever has on hand.
func asBufioReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}

func asBufioWriter(w io.Writer) (bw *bufio.Writer, fresh bool) {
	if bw, ok := w.(*bufio.Writer); ok {
		return bw, false
	}
	return bufio.NewWriter(w), true
}

// drainArgs reads and discards an argument list a handler expects to be
// empty (e.g. the terminal "e" line immediately following a target id),
// still going through Codec rather than calling ReadLines directly.
func drainArgs(reader *bufio.Reader) error {
	_, err := (Codec{}).DecodeArgs(reader)
	return err
}

// readRawLine reads one unframed field line (a target id, a method name,
// a class fqn) that precedes the tagged argument list in every command
// that takes one.
func readRawLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if nil != err {
		return "", MakeNetworkError("read failed", err)
	}
	return trimLine(line), nil
}

// readArgumentValues reads the tagged argument list up to the terminal
// "e" line and resolves each one to a Go value, following references
// through the registry.
func readArgumentValues(gw *Gateway, reader *bufio.Reader) ([]interface{}, error) {
	args, err := (Codec{}).DecodeArgs(reader)
	if nil != err {
		return nil, err
	}
	values := make([]interface{}, 0, len(args))
	for _, arg := range args {
		v, err := resolveArgument(gw, arg)
		if nil != err {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// resolveArgument turns a decoded Argument into the value Invoke should
// see: references are looked up in the registry, everything else passes
// through as already decoded.
func resolveArgument(gw *Gateway, arg Argument) (interface{}, error) {
	if TagReference != arg.Tag {
		return arg.Value, nil
	}
	if fqn, ok := IsStaticID(arg.RefID); ok {
		return nil, MakeProtocolError("cannot pass static class reference " + fqn + " as a value")
	}
	obj, ok := gw.GetObject(arg.RefID)
	if !ok {
		return nil, MakeUnknownObjectError(arg.RefID)
	}
	return obj, nil
}

// writeReturn classifies result and writes its response line, or writes
// an error envelope if err is non-nil.
func writeReturn(gw *Gateway, writer *bufio.Writer, result interface{}, err error) error {
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	return (Codec{}).EncodeReturn(writer, gw.Registry(), result)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if nil != err {
		return 0, MakeProtocolError("bad index literal " + strconv.Quote(s))
	}
	return n, nil
}

func joinLines(items []string) string {
	return strings.Join(items, "\n")
}
