/*
 * reflectengine.go
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
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// ReflectEngine is the default Engine implementation. It stands in for
// the out-of-scope black-box reflection facility: callers register Go
// types under a fully-qualified name (conventionally the Java-style fqn
// the peer will use to address them), and resolution uses
// reflect.Value.MethodByName/FieldByName by name alone; a call is
// rejected at Invoke if its argument count differs from the method's or
// an argument is neither assignable nor convertible to its parameter.
type ReflectEngine struct {
	mux     sync.RWMutex
	classes map[string]reflect.Type
}

// NewReflectEngine creates an engine with an empty class registry.
func NewReflectEngine() *ReflectEngine {
	return &ReflectEngine{classes: make(map[string]reflect.Type)}
}

// Register associates fqn with the type of zero (typically a pointer to
// a struct). Subsequent constructor/method/field resolution for fqn
// uses this type.
func (self *ReflectEngine) Register(fqn string, zero interface{}) {
	self.mux.Lock()
	defer self.mux.Unlock()
	self.classes[fqn] = reflect.TypeOf(zero)
}

func (self *ReflectEngine) classType(fqn string) (reflect.Type, bool) {
	self.mux.RLock()
	defer self.mux.RUnlock()
	t, ok := self.classes[fqn]
	return t, ok
}

// IsKnownClass reports whether fqn was registered via Register.
func (self *ReflectEngine) IsKnownClass(fqn string) bool {
	_, ok := self.classType(fqn)
	return ok
}

type reflectConstructor struct {
	fqn string
	typ reflect.Type
}

// ResolveConstructor finds the registered type for fqn. Go has no
// overloaded constructors in the Java sense, so "resolution" here is
// just a class lookup; argument compatibility is checked at Invoke time,
// which allocates the struct with reflect.New and assigns args to its
// exported fields in declaration order. No factory function is called.
func (self *ReflectEngine) ResolveConstructor(fqn string, args []interface{}) (Constructor, error) {
	typ, ok := self.classType(fqn)
	if !ok {
		return nil, MakeReflectionError(fmt.Errorf("unknown class %q", fqn))
	}
	return &reflectConstructor{fqn: fqn, typ: typ}, nil
}

type reflectMethod struct {
	name   string
	method reflect.Method
	static bool
}

// ResolveMethod looks up name by reflect.Type.MethodByName (for static
// calls, target is nil and fqn names the class) or by
// reflect.Value.MethodByName (for instance calls). When multiple methods
// share a name (Go forbids this for a single type, but an embedding
// type can expose shadowed promoted methods), the first found wins —
// closest-arity disambiguation happens in Invoke by trying the call and
// surfacing a ReflectionError on arity mismatch.
func (self *ReflectEngine) ResolveMethod(target interface{}, fqn, name string, args []interface{}) (Method, error) {
	var rv reflect.Value
	if nil != target {
		rv = reflect.ValueOf(target)
	} else {
		typ, ok := self.classType(fqn)
		if !ok {
			return nil, MakeReflectionError(fmt.Errorf("unknown class %q", fqn))
		}
		m, ok := typ.MethodByName(name)
		if !ok {
			return nil, MakeReflectionError(fmt.Errorf("no static method %s.%s", fqn, name))
		}
		return &reflectMethod{name: name, method: m, static: true}, nil
	}

	if !rv.IsValid() {
		return nil, MakeReflectionError(fmt.Errorf("nil target for method %s", name))
	}
	m := rv.MethodByName(name)
	if !m.IsValid() {
		return nil, MakeReflectionError(fmt.Errorf("no method %s on %s", name, rv.Type()))
	}
	mtype := reflect.Method{Name: name, Type: m.Type()}
	return &reflectMethod{name: name, method: mtype, static: false}, nil
}

type reflectField struct {
	name string
}

// ResolveField finds field name by reflect.Value.FieldByName (instance)
// or reports an error for an unresolved static field, since Go exposes
// no notion of static struct fields.
func (self *ReflectEngine) ResolveField(target interface{}, fqn, name string) (FieldHandle, error) {
	if nil == target {
		return nil, MakeReflectionError(fmt.Errorf("no static field %s.%s", fqn, name))
	}
	rv := reflect.Indirect(reflect.ValueOf(target))
	if reflect.Struct != rv.Kind() {
		return nil, MakeReflectionError(fmt.Errorf("%s is not a struct", rv.Type()))
	}
	if !rv.FieldByName(name).IsValid() {
		return nil, MakeReflectionError(fmt.Errorf("no field %s on %s", name, rv.Type()))
	}
	return &reflectField{name: name}, nil
}

// Invoke calls a resolved Constructor or Method.
func (self *ReflectEngine) Invoke(target interface{}, callable interface{}, args []interface{}) (interface{}, error) {
	switch c := callable.(type) {
	case *reflectConstructor:
		return self.invokeConstructor(c, args)
	case *reflectMethod:
		return self.invokeMethod(target, c, args)
	default:
		return nil, MakeReflectionError(fmt.Errorf("unrecognized callable %T", callable))
	}
}

func (self *ReflectEngine) invokeConstructor(c *reflectConstructor, args []interface{}) (interface{}, error) {
	typ := c.typ
	elem := typ
	ptr := false
	if reflect.Ptr == typ.Kind() {
		elem = typ.Elem()
		ptr = true
	}
	if reflect.Struct != elem.Kind() {
		return nil, MakeReflectionError(fmt.Errorf("class %q is not a struct type", c.fqn))
	}

	instance := reflect.New(elem)
	if err := assignPositional(instance.Elem(), args); nil != err {
		return nil, err
	}

	if ptr {
		return instance.Interface(), nil
	}
	return instance.Elem().Interface(), nil
}

// assignPositional assigns args positionally into a struct's exported
// fields, in declaration order, a deliberately simple stand-in for
// constructor-argument binding.
func assignPositional(sv reflect.Value, args []interface{}) error {
	fieldIdx := 0
	for _, arg := range args {
		for fieldIdx < sv.NumField() && !sv.Type().Field(fieldIdx).IsExported() {
			fieldIdx++
		}
		if fieldIdx >= sv.NumField() {
			return MakeReflectionError(fmt.Errorf("too many constructor arguments"))
		}
		field := sv.Field(fieldIdx)
		av := reflect.ValueOf(arg)
		if nil == arg {
			fieldIdx++
			continue
		}
		if !av.Type().AssignableTo(field.Type()) {
			if av.Type().ConvertibleTo(field.Type()) {
				av = av.Convert(field.Type())
			} else {
				return MakeReflectionError(fmt.Errorf(
					"argument %d: cannot assign %s to field %s (%s)",
					fieldIdx, av.Type(), sv.Type().Field(fieldIdx).Name, field.Type()))
			}
		}
		field.Set(av)
		fieldIdx++
	}
	return nil
}

func (self *ReflectEngine) invokeMethod(target interface{}, m *reflectMethod, args []interface{}) (interface{}, error) {
	rv := reflect.ValueOf(target)
	method := rv.MethodByName(m.name)
	if !method.IsValid() {
		return nil, MakeReflectionError(fmt.Errorf("no method %s on %s", m.name, rv.Type()))
	}

	in := make([]reflect.Value, 0, len(args))
	methodType := method.Type()
	if methodType.NumIn() != len(args) {
		return nil, MakeReflectionError(fmt.Errorf(
			"%s: expected %d arguments, got %d", m.name, methodType.NumIn(), len(args)))
	}
	for i, arg := range args {
		want := methodType.In(i)
		if nil == arg {
			in = append(in, reflect.Zero(want))
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(want) {
			if av.Type().ConvertibleTo(want) {
				av = av.Convert(want)
			} else {
				return nil, MakeReflectionError(fmt.Errorf(
					"%s: argument %d: cannot assign %s to %s", m.name, i, av.Type(), want))
			}
		}
		in = append(in, av)
	}

	out := method.Call(in)
	return firstResultOrVoid(out)
}

func firstResultOrVoid(out []reflect.Value) (interface{}, error) {
	switch len(out) {
	case 0:
		return Void, nil
	case 1:
		if err, ok := out[0].Interface().(error); ok {
			if nil != err {
				return nil, MakeInvocationError(err)
			}
			return Void, nil
		}
		return out[0].Interface(), nil
	default:
		last := out[len(out)-1]
		if err, ok := last.Interface().(error); ok && nil != err {
			return nil, MakeInvocationError(err)
		}
		return out[0].Interface(), nil
	}
}

// GetField reads field.
func (self *ReflectEngine) GetField(target interface{}, field FieldHandle) (interface{}, error) {
	f, ok := field.(*reflectField)
	if !ok {
		return nil, MakeReflectionError(fmt.Errorf("unrecognized field handle %T", field))
	}
	rv := reflect.Indirect(reflect.ValueOf(target))
	fv := rv.FieldByName(f.name)
	if !fv.IsValid() {
		return nil, MakeReflectionError(fmt.Errorf("no field %s", f.name))
	}
	return fv.Interface(), nil
}

// SetField writes value into field.
func (self *ReflectEngine) SetField(target interface{}, field FieldHandle, value interface{}) error {
	f, ok := field.(*reflectField)
	if !ok {
		return MakeReflectionError(fmt.Errorf("unrecognized field handle %T", field))
	}
	rv := reflect.Indirect(reflect.ValueOf(target))
	fv := rv.FieldByName(f.name)
	if !fv.IsValid() || !fv.CanSet() {
		return MakeReflectionError(fmt.Errorf("field %s is not settable", f.name))
	}
	av := reflect.ValueOf(value)
	if nil == value {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}
	if !av.Type().AssignableTo(fv.Type()) {
		if av.Type().ConvertibleTo(fv.Type()) {
			av = av.Convert(fv.Type())
		} else {
			return MakeReflectionError(fmt.Errorf("cannot assign %s to field %s (%s)", av.Type(), f.name, fv.Type()))
		}
	}
	fv.Set(av)
	return nil
}

// Members lists method and field names for fqn, or the registered
// classes under fqn if it names a package prefix rather than an exact
// class.
func (self *ReflectEngine) Members(fqn string) ([]string, error) {
	if typ, ok := self.classType(fqn); ok {
		var names []string
		elem := typ
		if reflect.Ptr == elem.Kind() {
			elem = elem.Elem()
		}
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
		return names, nil
	}

	self.mux.RLock()
	defer self.mux.RUnlock()
	var names []string
	prefix := fqn
	if !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}
	for known := range self.classes {
		if strings.HasPrefix(known, prefix) {
			names = append(names, known)
		}
	}
	sort.Strings(names)
	if 0 == len(names) {
		return nil, MakeReflectionError(fmt.Errorf("unknown class or package %q", fqn))
	}
	return names, nil
}

var _ Engine = (*ReflectEngine)(nil)
