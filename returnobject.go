/*
 * returnobject.go
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
	"math/big"
	"reflect"
)

// Kind enumerates the categories a ReturnObject may carry, in the exact
// classification precedence order used by Classify.
type Kind int

const (
	KindNull Kind = iota
	KindVoid
	KindPrimitive
	KindList
	KindMap
	KindArray
	KindSet
	KindIterator
	KindReference
)

// ReturnObject is the tagged envelope returned to the peer for any host
// value: the value itself for primitives, or an id (plus a cardinality
// snapshot for containers) for everything that gets registered.
type ReturnObject struct {
	Kind  Kind
	Value interface{} // only meaningful when Kind == KindPrimitive
	ID    string       // only meaningful when Kind registers an object
	Size  int          // list/map/set cardinality snapshot; unused otherwise
	Len   int          // array length snapshot; unused otherwise
}

// voidType is the type of Void, the value returned for a method whose Go
// signature has no return value; it is never registered.
type voidType struct{}

// Void is the distinguished sentinel classified as KindVoid.
var Void = voidType{}

// Classify applies the return-value classification policy: the first
// matching predicate wins, and only containers
// that can report a cheap cardinality are given a size. Containers and
// references are registered in reg as a side effect; iterators are
// registered but never sized, since computing their size would consume
// them.
func Classify(reg *Registry, v interface{}) ReturnObject {
	if nil == v {
		return ReturnObject{Kind: KindNull}
	}

	if _, ok := v.(voidType); ok {
		return ReturnObject{Kind: KindVoid}
	}

	if isPrimitive(v) {
		return ReturnObject{Kind: KindPrimitive, Value: v}
	}

	rv := reflect.ValueOf(v)

	if isListLike(rv) {
		id := reg.PutNew(v)
		return ReturnObject{Kind: KindList, ID: id, Size: rv.Len()}
	}

	if isMapLike(rv) {
		id := reg.PutNew(v)
		return ReturnObject{Kind: KindMap, ID: id, Size: rv.Len()}
	}

	if isArrayLike(rv) {
		id := reg.PutNew(v)
		return ReturnObject{Kind: KindArray, ID: id, Len: rv.Len()}
	}

	if isSetLike(v) {
		id := reg.PutNew(v)
		size := 0
		if s, ok := v.(Set); ok {
			size = s.Size()
		}
		return ReturnObject{Kind: KindSet, ID: id, Size: size}
	}

	if isIteratorLike(v) {
		id := reg.PutNew(v)
		return ReturnObject{Kind: KindIterator, ID: id}
	}

	id := reg.PutNew(v)
	return ReturnObject{Kind: KindReference, ID: id}
}

// Iterator is implemented by lazy single-pass producers. Classify gives
// these no size, since computing one would be destructive.
type Iterator interface {
	HasNext() bool
	Next() (interface{}, error)
}

// Set is implemented by unordered unique-element collections. A slice
// type implementing Set is classified as a set rather than a list; a map
// or array type is classified as a map or array even if it implements
// Set, since Classify checks those kinds first.
type Set interface {
	Size() int
	Contains(interface{}) bool
	Items() []interface{}
}

func isPrimitive(v interface{}) bool {
	switch v.(type) {
	case bool, string, Char,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, *big.Rat:
		return true
	default:
		return false
	}
}

func isListLike(rv reflect.Value) bool {
	if _, ok := rv.Interface().(Set); ok {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return true
	default:
		return false
	}
}

func isMapLike(rv reflect.Value) bool {
	return reflect.Map == rv.Kind()
}

func isArrayLike(rv reflect.Value) bool {
	return reflect.Array == rv.Kind()
}

func isSetLike(v interface{}) bool {
	_, ok := v.(Set)
	return ok
}

func isIteratorLike(v interface{}) bool {
	_, ok := v.(Iterator)
	return ok
}

// EncodeReturn writes the single response line for a ReturnObject:
// "yro0"-style references, "yl<id>,<size>" for lists, "yu<id>" for
// iterators, "yn" for null, "yv" for void, and primitive lines carrying
// their own type tag.
func EncodeReturn(ret ReturnObject) string {
	switch ret.Kind {
	case KindNull:
		return string(OKPrefix) + string(TagNull)
	case KindVoid:
		return string(OKPrefix) + "v"
	case KindPrimitive:
		return string(OKPrefix) + EncodeArgument(ret.Value)
	case KindReference:
		return string(OKPrefix) + string(TagReference) + ret.ID
	case KindList:
		return fmt.Sprintf("%c%c%s,%d", OKPrefix, 'l', ret.ID, ret.Size)
	case KindMap:
		return fmt.Sprintf("%c%c%s,%d", OKPrefix, 'm', ret.ID, ret.Size)
	case KindSet:
		return fmt.Sprintf("%c%c%s,%d", OKPrefix, 'h', ret.ID, ret.Size)
	case KindArray:
		return fmt.Sprintf("%c%c%s,%d", OKPrefix, 'a', ret.ID, ret.Len)
	case KindIterator:
		return fmt.Sprintf("%c%c%s", OKPrefix, 'u', ret.ID)
	default:
		return string(OKPrefix) + string(TagNull)
	}
}

// EncodeError writes the single response line for an error.
func EncodeError(err error) string {
	switch e := err.(type) {
	case *InvocationError, *ReflectionError:
		var objID string
		if ex, ok := err.(Err); ok {
			objID = ex.ObjectID()
		}
		return fmt.Sprintf("%c%c%s", ErrorPrefix, ErrKindException, objID)
	case *UnknownObjectError:
		_ = e
		return fmt.Sprintf("%c%c", ErrorPrefix, ErrKindUnknownObj)
	case *ProtocolError:
		_ = e
		return fmt.Sprintf("%c%c", ErrorPrefix, ErrKindProtocol)
	default:
		return fmt.Sprintf("%c%c", ErrorPrefix, ErrKindProtocol)
	}
}
