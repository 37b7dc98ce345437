/*
 * commands_stream.go
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
)

// handleStream implements raw binary pass-through against a registered
// StreamSink: "read" pulls length bytes off the wire and writes them
// into the sink, "write" pulls length bytes out of the sink and puts
// them on the wire. Binary payloads are never line-escaped, so the
// length must be exact on both sides.
func handleStream(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	lengthLine, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	length, err := strconv.Atoi(lengthLine)
	if nil != err || length < 0 {
		return writeLine(writer, EncodeError(MakeProtocolError("bad stream length "+lengthLine)))
	}

	obj, ok := gw.GetObject(id)
	if !ok {
		return writeLine(writer, EncodeError(MakeUnknownObjectError(id)))
	}
	sink, ok := obj.(StreamSink)
	if !ok {
		return writeLine(writer, EncodeError(MakeProtocolError(id+" is not a stream sink")))
	}

	switch sub {
	case "read":
		buf := make([]byte, length)
		if _, err := io.ReadFull(reader, buf); nil != err {
			return writeLine(writer, EncodeError(MakeNetworkError("stream read failed", err)))
		}
		if _, err := sink.Write(buf); nil != err {
			return writeLine(writer, EncodeError(MakeNetworkError("sink write failed", err)))
		}
		return writeReturn(gw, writer, Void, nil)
	case "write":
		buf := make([]byte, length)
		n, err := io.ReadFull(sink, buf)
		if nil != err && io.EOF != err && io.ErrUnexpectedEOF != err {
			return writeLine(writer, EncodeError(MakeNetworkError("sink read failed", err)))
		}
		if _, werr := writer.Write(buf[:n]); nil != werr {
			return MakeNetworkError("stream write failed", werr)
		}
		if werr := writer.Flush(); nil != werr {
			return MakeNetworkError("stream write failed", werr)
		}
		if n < length {
			return writeLine(writer, EncodeError(ErrStreamShortCopy))
		}
		return writeReturn(gw, writer, Void, nil)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown stream subcommand "+sub)))
	}
}
