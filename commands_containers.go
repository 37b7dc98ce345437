/*
 * commands_containers.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "bufio"

// handleList implements len/get/set/append/remove/slice against a
// registered slice-kind object.
func handleList(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	rv, err := resolveContainer(gw, id)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	switch sub {
	case "len":
		return writeReturn(gw, writer, int32(rv.Len()), nil)
	case "get":
		idx, ierr := argIndex(args, 0)
		if nil != ierr {
			return writeLine(writer, EncodeError(ierr))
		}
		v, gerr := listGet(rv, idx)
		return writeReturn(gw, writer, v, gerr)
	case "set":
		idx, ierr := argIndex(args, 0)
		if nil != ierr {
			return writeLine(writer, EncodeError(ierr))
		}
		if 2 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("list set expects index and value")))
		}
		prev, serr := listSet(rv, idx, args[1])
		return writeReturn(gw, writer, prev, serr)
	case "append":
		if 1 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("list append expects one value")))
		}
		newLen, aerr := listAppend(gw, id, rv, args[0])
		return writeReturn(gw, writer, int32(newLen), aerr)
	case "remove":
		idx, ierr := argIndex(args, 0)
		if nil != ierr {
			return writeLine(writer, EncodeError(ierr))
		}
		removed, rerr := listRemove(gw, id, rv, idx)
		return writeReturn(gw, writer, removed, rerr)
	case "slice":
		if 2 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("list slice expects start and end")))
		}
		start, serr := argIndex(args, 0)
		if nil != serr {
			return writeLine(writer, EncodeError(serr))
		}
		end, eerr := argIndex(args, 1)
		if nil != eerr {
			return writeLine(writer, EncodeError(eerr))
		}
		sliced, slerr := listSlice(rv, start, end)
		return writeReturn(gw, writer, sliced, slerr)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown list subcommand "+sub)))
	}
}

// handleMap implements len/get/put/remove/keys against a registered
// map-kind object.
func handleMap(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	rv, err := resolveContainer(gw, id)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	switch sub {
	case "len":
		return writeReturn(gw, writer, int32(rv.Len()), nil)
	case "get":
		if 1 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("map get expects one key")))
		}
		v, found, gerr := mapGet(rv, args[0])
		if nil != gerr {
			return writeLine(writer, EncodeError(gerr))
		}
		if !found {
			return writeReturn(gw, writer, nil, nil)
		}
		return writeReturn(gw, writer, v, nil)
	case "put":
		if 2 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("map put expects key and value")))
		}
		prev, perr := mapPut(rv, args[0], args[1])
		return writeReturn(gw, writer, prev, perr)
	case "remove":
		if 1 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("map remove expects one key")))
		}
		prev, rerr := mapRemove(rv, args[0])
		return writeReturn(gw, writer, prev, rerr)
	case "keys":
		return writeReturn(gw, writer, mapKeys(rv), nil)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown map subcommand "+sub)))
	}
}

// handleArray implements len/get/set/slice against a registered
// fixed-length array object.
func handleArray(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	rv, err := resolveContainer(gw, id)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	switch sub {
	case "len":
		return writeReturn(gw, writer, int32(rv.Len()), nil)
	case "get":
		idx, ierr := argIndex(args, 0)
		if nil != ierr {
			return writeLine(writer, EncodeError(ierr))
		}
		v, gerr := listGet(rv, idx)
		return writeReturn(gw, writer, v, gerr)
	case "set":
		idx, ierr := argIndex(args, 0)
		if nil != ierr {
			return writeLine(writer, EncodeError(ierr))
		}
		if 2 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("array set expects index and value")))
		}
		prev, serr := arraySet(gw, id, rv, idx, args[1])
		return writeReturn(gw, writer, prev, serr)
	case "slice":
		if 2 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("array slice expects start and end")))
		}
		start, serr := argIndex(args, 0)
		if nil != serr {
			return writeLine(writer, EncodeError(serr))
		}
		end, eerr := argIndex(args, 1)
		if nil != eerr {
			return writeLine(writer, EncodeError(eerr))
		}
		sliced, slerr := listSlice(rv, start, end)
		return writeReturn(gw, writer, sliced, slerr)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown array subcommand "+sub)))
	}
}

// handleSet implements the read-only operations the Set interface
// supports: length, containment, and exporting its elements as a list.
// There is no add/remove: a Set is a host-defined unordered collection,
// not a Go builtin this package can mutate generically.
func handleSet(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	args, err := readArgumentValues(gw, reader)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}

	obj, ok := gw.GetObject(id)
	if !ok {
		return writeLine(writer, EncodeError(MakeUnknownObjectError(id)))
	}
	set, ok := obj.(Set)
	if !ok {
		return writeLine(writer, EncodeError(MakeProtocolError(id+" is not a set")))
	}

	switch sub {
	case "len":
		return writeReturn(gw, writer, int32(set.Size()), nil)
	case "contains":
		if 1 != len(args) {
			return writeLine(writer, EncodeError(MakeProtocolError("set contains expects one value")))
		}
		return writeReturn(gw, writer, set.Contains(args[0]), nil)
	case "items":
		return writeReturn(gw, writer, set.Items(), nil)
	default:
		return writeLine(writer, EncodeError(MakeProtocolError("unknown set subcommand "+sub)))
	}
}

func argIndex(args []interface{}, pos int) (int, error) {
	if pos >= len(args) {
		return 0, MakeProtocolError("missing index argument")
	}
	switch v := args[pos].(type) {
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, MakeProtocolError("index argument is not numeric")
	}
}
