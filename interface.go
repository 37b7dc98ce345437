/*
 * interface.go
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

// Constructor, Method and Field are opaque handles returned by an
// Engine's resolution calls and passed back into Invoke/Get/Set. Their
// concrete shape is entirely up to the engine implementation; the
// gateway never inspects them.
type (
	Constructor interface{}
	Method      interface{}
	FieldHandle interface{}
)

// Engine is the reflection facility that resolves overloaded
// constructors, methods, and fields by argument-type compatibility, and
// invokes them. It is treated as an external collaborator: the
// this package leaves its resolution algorithm out of scope so that
// implementations targeting other object models can plug in their own.
//
// All methods must be safe for concurrent use; they carry no state of
// their own beyond whatever class registry the implementation maintains.
type Engine interface {
	// ResolveConstructor finds the constructor of fqn best matching args.
	ResolveConstructor(fqn string, args []interface{}) (Constructor, error)

	// ResolveMethod finds the method named name on target (or, if target
	// is nil, the static method named name on class fqn) best matching
	// args.
	ResolveMethod(target interface{}, fqn, name string, args []interface{}) (Method, error)

	// ResolveField finds the field named name on target (or the static
	// field on class fqn if target is nil).
	ResolveField(target interface{}, fqn, name string) (FieldHandle, error)

	// Invoke calls a resolved Constructor or Method with args against
	// target (target is ignored for constructors and static methods).
	Invoke(target interface{}, callable interface{}, args []interface{}) (interface{}, error)

	// GetField reads a resolved field from target.
	GetField(target interface{}, field FieldHandle) (interface{}, error)

	// SetField writes value into a resolved field on target.
	SetField(target interface{}, field FieldHandle, value interface{}) error

	// Members lists the method and field names for fqn (or, if fqn
	// names a package prefix, the classes registered under it), used by
	// the dir and help commands.
	Members(fqn string) ([]string, error)

	// IsKnownClass reports whether fqn is a class the engine can
	// resolve constructors/methods/fields against.
	IsKnownClass(fqn string) bool
}

// StreamSink is the binary sink a registered object must implement to
// participate in the stream command.
type StreamSink interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}

// Listener receives gateway server lifecycle notifications. A crashing
// listener must not prevent other listeners from running and must not
// fail the originating operation; the server recovers from listener
// panics and logs them.
type Listener interface {
	ConnectionStopped(conn *DuplexConnection)
	ServerStarted()
	ServerStopped()
}
