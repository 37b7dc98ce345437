/*
 * commands_reflection_help_dir.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bufio"
	"reflect"
	"sort"
)

// handleReflection implements reflection.getUnknown: resolve a bare name
// against a view's imports, falling back to the engine's own class
// registry. A resolved name is reported as a static class reference; an
// unresolved one is classified as a package, which always succeeds,
// since any dotted name is a valid package prefix.
func handleReflection(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	sub, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if "getUnknown" != sub {
		return writeLine(writer, EncodeError(MakeProtocolError("unknown reflection subcommand "+sub)))
	}

	name, err := readRawLine(reader)
	if nil != err {
		return err
	}
	viewID, err := readRawLine(reader)
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
	fqn, found := view.Resolve(name, gw.Engine().IsKnownClass)
	if !found {
		return writeLine(writer, string(OKPrefix)+string(TagPackage)+name)
	}
	return writeLine(writer, string(OKPrefix)+string(TagReference)+StaticPrefix+fqn)
}

// handleHelp implements help: a human-readable, newline-joined listing of
// an id's members, suitable for printing at a peer-side REPL.
func handleHelp(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	names, err := membersOf(gw, id)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	return writeReturn(gw, writer, "Members of "+id+":\n"+joinLines(names), nil)
}

// handleDir implements dir: the same member listing as help, but
// returned as a registered list rather than a formatted string, for
// peers that want to iterate it programmatically.
func handleDir(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	names, err := membersOf(gw, id)
	if nil != err {
		return writeLine(writer, EncodeError(err))
	}
	return writeReturn(gw, writer, names, nil)
}

// membersOf lists member names for id: for a static id, defers to the
// engine's class registry; for a bound instance, enumerates its exported
// methods and fields directly via reflect, since the instance need not
// have been registered as a named class.
func membersOf(gw *Gateway, id string) ([]string, error) {
	if fqn, ok := IsStaticID(id); ok {
		return gw.Engine().Members(fqn)
	}
	obj, ok := gw.GetObject(id)
	if !ok {
		return nil, MakeUnknownObjectError(id)
	}
	return reflectMembersOf(obj), nil
}

func reflectMembersOf(v interface{}) []string {
	typ := reflect.TypeOf(v)
	elem := typ
	if reflect.Ptr == elem.Kind() {
		elem = elem.Elem()
	}
	var names []string
	for i := 0; i < typ.NumMethod(); i++ {
		names = append(names, typ.Method(i).Name)
	}
	if reflect.Struct == elem.Kind() {
		for i := 0; i < elem.NumField(); i++ {
			if elem.Field(i).IsExported() {
				names = append(names, elem.Field(i).Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// handleException implements exception.getJVMException: look up the
// throwable bound at id (bound by Gateway.bindThrowable when an
// InvocationError or ReflectionError was reported) and hand it back as a
// plain reference so the peer can introspect it like any other object.
func handleException(gw *Gateway, conn *DuplexConnection, reader *bufio.Reader, writer *bufio.Writer) error {
	id, err := readRawLine(reader)
	if nil != err {
		return err
	}
	if err := drainArgs(reader); nil != err {
		return err
	}

	obj, ok := gw.GetObject(id)
	if !ok {
		return writeLine(writer, EncodeError(MakeUnknownObjectError(id)))
	}
	return writeReturn(gw, writer, obj, nil)
}
