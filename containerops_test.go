/*
 * containerops_test.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"reflect"
	"testing"
)

func TestListGetSet(t *testing.T) {
	s := []int{10, 20, 30}
	rv := reflect.ValueOf(s)

	v, err := listGet(rv, 1)
	if nil != err || 20 != v {
		t.Fatalf("listGet(1) = %v, %v, want 20, nil", v, err)
	}

	prev, err := listSet(rv, 1, 99)
	if nil != err || 20 != prev {
		t.Fatalf("listSet(1, 99) = %v, %v, want 20, nil", prev, err)
	}
	if 99 != s[1] {
		t.Errorf("s[1] = %d after listSet, want 99", s[1])
	}
}

func TestListGetOutOfRange(t *testing.T) {
	rv := reflect.ValueOf([]int{1})
	if _, err := listGet(rv, 5); nil == err {
		t.Fatal("expected out-of-range error")
	}
}

func TestListAppendRebinds(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject([]int{1, 2})
	rv, _ := resolveContainer(gw, id)

	n, err := listAppend(gw, id, rv, 3)
	if nil != err || 3 != n {
		t.Fatalf("listAppend = %d, %v, want 3, nil", n, err)
	}
	updated, _ := gw.GetObject(id)
	if got := updated.([]int); 3 != len(got) || 3 != got[2] {
		t.Errorf("rebound slice = %v, want [1 2 3]", got)
	}
}

func TestListRemoveRebinds(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject([]int{1, 2, 3})
	rv, _ := resolveContainer(gw, id)

	removed, err := listRemove(gw, id, rv, 1)
	if nil != err || 2 != removed {
		t.Fatalf("listRemove(1) = %v, %v, want 2, nil", removed, err)
	}
	updated, _ := gw.GetObject(id)
	if got := updated.([]int); 2 != len(got) || 3 != got[1] {
		t.Errorf("rebound slice = %v, want [1 3]", got)
	}
}

func TestListSlice(t *testing.T) {
	rv := reflect.ValueOf([]int{1, 2, 3, 4})
	sliced, err := listSlice(rv, 1, 3)
	if nil != err {
		t.Fatalf("listSlice: %v", err)
	}
	if got := sliced.([]int); 2 != len(got) || 2 != got[0] || 3 != got[1] {
		t.Errorf("listSlice(1,3) = %v, want [2 3]", got)
	}
}

func TestMapGetPutRemove(t *testing.T) {
	m := map[string]int{"a": 1}
	rv := reflect.ValueOf(m)

	v, found, err := mapGet(rv, "a")
	if nil != err || !found || 1 != v {
		t.Fatalf("mapGet = %v, %v, %v, want 1, true, nil", v, found, err)
	}

	prev, err := mapPut(rv, "b", 2)
	if nil != err || nil != prev {
		t.Fatalf("mapPut(new key) = %v, %v, want nil, nil", prev, err)
	}
	if 2 != m["b"] {
		t.Errorf("m[b] = %d, want 2", m["b"])
	}

	removed, err := mapRemove(rv, "a")
	if nil != err || 1 != removed {
		t.Fatalf("mapRemove(a) = %v, %v, want 1, nil", removed, err)
	}
	if _, ok := m["a"]; ok {
		t.Error("key a still present after mapRemove")
	}
}

func TestMapKeys(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2}
	rv := reflect.ValueOf(m)
	keysVal := mapKeys(rv)
	keys := keysVal.([]string)
	if 2 != len(keys) {
		t.Fatalf("mapKeys = %v, want 2 entries", keys)
	}
}

func TestArraySetRebinds(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject([3]int{1, 2, 3})
	rv, _ := resolveContainer(gw, id)

	prev, err := arraySet(gw, id, rv, 1, 99)
	if nil != err || 2 != prev {
		t.Fatalf("arraySet(1, 99) = %v, %v, want 2, nil", prev, err)
	}
	updated, _ := gw.GetObject(id)
	arr := updated.([3]int)
	if 99 != arr[1] {
		t.Errorf("arr[1] = %d after arraySet, want 99", arr[1])
	}
}
