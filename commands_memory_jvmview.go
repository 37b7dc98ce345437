/*
 * commands_memory_jvmview.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "bufio"

// handleMemory implements release and attach. Ownership of a bound
// object is single and explicit: release always succeeds (releasing an
// unknown id is a no-op), and attach succeeds iff the id is still bound,
// since this package keeps no generation counter or weak reference to
// revive.
func handleMemory(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	switch sub {
	case "release":
		gw.DeleteObject(id)
		return writeReturn(gw, writer, Void, nil)
	case "attach":
		if _, ok := gw.GetObject(id); !ok {
			return writeLine(writer, EncodeError(MakeUnknownObjectError(id)))
		}
		return writeReturn(gw, writer, Void, nil)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown memory subcommand "+sub)))
	}
}

// handleJVMView implements create and import. create allocates a new
// named view and returns it as a reference the peer can later hand back
// as a view id; import records a class or wildcard-package import in an
// existing view.
func handleJVMView(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}

	switch sub {
	case "create":
		name, err := readRawLine(reader)
		if nil != err {
			return err
		}
		if err := drainArgs(reader); nil != err {
			return err
		}
		view := gw.Views().Create(name)
		return writeLine(writer, string(OKPrefix)+string(TagReference)+view.ID)
	case "import":
		viewID, err := readRawLine(reader)
		if nil != err {
			return err
		}
		fqn, err := readRawLine(reader)
		if nil != err {
			return err
		}
		if err := drainArgs(reader); nil != err {
			return err
		}
		view, ok := gw.Views().Get(viewID)
		if !ok {
			return writeLine(writer, EncodeError(MakeUnknownObjectError(viewID)))
		}
		view.Import(fqn)
		return writeReturn(gw, writer, Void, nil)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown jvmview subcommand "+sub)))
	}
}
