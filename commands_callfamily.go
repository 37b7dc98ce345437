/*
 * commands_callfamily.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "bufio"

// handleCallFamily implements the "c" command group: a second line picks
// the operation among constructor, call, field.get and field.set. Method
// invocation and construction share one group because both ultimately
// resolve a callable through the Engine and classify its result the same
// way.
func handleCallFamily(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}

	switch sub {
	case "constructor":
		return handleConstructor(gw, reader, writer)
	case "call":
		return handleCall(gw, reader, writer)
	case "field.get":
		return handleFieldGet(gw, reader, writer)
	case "field.set":
		return handleFieldSet(gw, reader, writer)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown call-family subcommand "+sub)))
	}
}

func handleConstructor(gw *Gateway, reader *bufio.Reader, writer *bufio.Writer) error {
	fqn, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	ret, err := gw.InvokeConstructor(fqn, args)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	return writeLine(writer, EncodeReturn(ret))
}

func handleCall(gw *Gateway, reader *bufio.Reader, writer *bufio.Writer) error {
	methodName, err := readRawLine(reader)
	if nil != err {
		return err
	}
	targetID, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	ret, err := gw.Invoke(methodName, targetID, args)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	return writeLine(writer, EncodeReturn(ret))
}

func handleFieldGet(gw *Gateway, reader *bufio.Reader, writer *bufio.Writer) error {
	targetID, err := readRawLine(reader)
	if nil != err {
		return err
	}
	fieldName, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	target, fqn, err := resolveTarget(gw, targetID)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	handle, err := gw.Engine().ResolveField(target, fqn, fieldName)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	value, err := gw.Engine().GetField(target, handle)
	return writeReturn(gw, writer, value, err)
}

func handleFieldSet(gw *Gateway, reader *bufio.Reader, writer *bufio.Writer) error {
	targetID, err := readRawLine(reader)
	if nil != err {
		return err
	}
	fieldName, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	if 1 != len(args) {
		return writeLine(writer, EncodeError(MakeProtocolError("field.set expects exactly one value")))
	}

	target, fqn, err := resolveTarget(gw, targetID)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	handle, err := gw.Engine().ResolveField(target, fqn, fieldName)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	err = gw.Engine().SetField(target, handle, args[0])
	return writeReturn(gw, writer, Void, err)
}

// resolveTarget resolves a targetID into either a bound instance (fqn
// empty) or a nil instance plus the static class name.
func resolveTarget(gw *Gateway, targetID string) (target interface{}, fqn string, err error) {
	target, err = gw.ObjectFromID(targetID)
	if nil != err {
		return nil, "", err
	}
	if nil == target {
		fqn, _ = IsStaticID(targetID)
	}
	return target, fqn, nil
}
