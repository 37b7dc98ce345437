/*
 * containerops.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "reflect"

// resolveContainer looks up id and returns it as a reflect.Value, failing
// if id is unknown.
func resolveContainer(gw *Gateway, id string) (reflect.Value, error) {
	obj, ok := gw.GetObject(id)
	if !ok {
		return reflect.Value{}, MakeUnknownObjectError(id)
	}
	return reflect.ValueOf(obj), nil
}

func checkIndex(rv reflect.Value, idx int) error {
	if idx < 0 || idx >= rv.Len() {
		return MakeProtocolError("index out of range")
	}
	return nil
}

// listGet reads element idx of a slice container.
func listGet(rv reflect.Value, idx int) (interface{}, error) {
	if err := checkIndex(rv, idx); nil != err {
		return nil, err
	}
	return rv.Index(idx).Interface(), nil
}

// listSet overwrites element idx in place (no reallocation needed for a
// by-index assignment) and returns the previous value.
func listSet(rv reflect.Value, idx int, val interface{}) (interface{}, error) {
	if err := checkIndex(rv, idx); nil != err {
		return nil, err
	}
	elem := rv.Index(idx)
	prev := elem.Interface()
	if !elem.CanSet() {
		return nil, MakeProtocolError("element is not settable")
	}
	assigned, err := coerce(val, elem.Type())
	if nil != err {
		return nil, err
	}
	elem.Set(assigned)
	return prev, nil
}

// listAppend grows the slice, rebinding id to the (possibly reallocated)
// result, and returns the new length.
func listAppend(gw *Gateway, id string, rv reflect.Value, val interface{}) (int, error) {
	assigned, err := coerce(val, rv.Type().Elem())
	if nil != err {
		return 0, err
	}
	grown := reflect.Append(rv, assigned)
	gw.Registry().Put(id, grown.Interface())
	return grown.Len(), nil
}

// listRemove deletes element idx, rebinding id to the shortened slice,
// and returns the removed value.
func listRemove(gw *Gateway, id string, rv reflect.Value, idx int) (interface{}, error) {
	if err := checkIndex(rv, idx); nil != err {
		return nil, err
	}
	removed := rv.Index(idx).Interface()
	out := reflect.MakeSlice(rv.Type(), 0, rv.Len()-1)
	out = reflect.AppendSlice(out, rv.Slice(0, idx))
	out = reflect.AppendSlice(out, rv.Slice(idx+1, rv.Len()))
	gw.Registry().Put(id, out.Interface())
	return removed, nil
}

// listSlice returns a new, separately registered slice covering
// [start, end).
func listSlice(rv reflect.Value, start, end int) (interface{}, error) {
	if start < 0 || end > rv.Len() || start > end {
		return nil, MakeProtocolError("slice bounds out of range")
	}
	return rv.Slice(start, end).Interface(), nil
}

// mapGet reads key from a map container.
func mapGet(rv reflect.Value, key interface{}) (interface{}, bool, error) {
	kv, err := coerce(key, rv.Type().Key())
	if nil != err {
		return nil, false, err
	}
	v := rv.MapIndex(kv)
	if !v.IsValid() {
		return nil, false, nil
	}
	return v.Interface(), true, nil
}

// mapPut writes key/value into a map container (maps are reference types
// in Go, so no rebinding is required) and returns the previous value.
func mapPut(rv reflect.Value, key, val interface{}) (interface{}, error) {
	kv, err := coerce(key, rv.Type().Key())
	if nil != err {
		return nil, err
	}
	vv, err := coerce(val, rv.Type().Elem())
	if nil != err {
		return nil, err
	}
	prev := rv.MapIndex(kv)
	rv.SetMapIndex(kv, vv)
	if prev.IsValid() {
		return prev.Interface(), nil
	}
	return nil, nil
}

// mapRemove deletes key and returns the removed value, if any.
func mapRemove(rv reflect.Value, key interface{}) (interface{}, error) {
	kv, err := coerce(key, rv.Type().Key())
	if nil != err {
		return nil, err
	}
	prev := rv.MapIndex(kv)
	rv.SetMapIndex(kv, reflect.Value{})
	if prev.IsValid() {
		return prev.Interface(), nil
	}
	return nil, nil
}

// mapKeys returns the map's keys as a freshly allocated, independently
// registrable slice.
func mapKeys(rv reflect.Value) interface{} {
	keys := rv.MapKeys()
	out := reflect.MakeSlice(reflect.SliceOf(rv.Type().Key()), 0, len(keys))
	for _, k := range keys {
		out = reflect.Append(out, k)
	}
	return out.Interface()
}

// arraySet rebuilds the fixed-length array with element idx replaced,
// rebinding id, since reflect.Array values obtained from an interface{}
// are not addressable in place.
func arraySet(gw *Gateway, id string, rv reflect.Value, idx int, val interface{}) (interface{}, error) {
	if err := checkIndex(rv, idx); nil != err {
		return nil, err
	}
	prev := rv.Index(idx).Interface()
	assigned, err := coerce(val, rv.Type().Elem())
	if nil != err {
		return nil, err
	}
	out := reflect.New(rv.Type()).Elem()
	reflect.Copy(out, rv)
	out.Index(idx).Set(assigned)
	gw.Registry().Put(id, out.Interface())
	return prev, nil
}

// coerce converts v to want, the way method argument binding does.
func coerce(v interface{}, want reflect.Type) (reflect.Value, error) {
	if nil == v {
		return reflect.Zero(want), nil
	}
	av := reflect.ValueOf(v)
	if av.Type().AssignableTo(want) {
		return av, nil
	}
	if av.Type().ConvertibleTo(want) {
		return av.Convert(want), nil
	}
	return reflect.Value{}, MakeProtocolError("cannot assign value to element type " + want.String())
}
