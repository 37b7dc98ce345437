/*
 * commands_dispatch_test.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestHandleStreamWrite(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	sink := &bytes.Buffer{}
	sink.WriteString("hello")
	id := gw.PutNewObject(sink)

	out := runHandler(t, gw, handleStream, "write\n"+id+"\n5\ne\n")
	if "helloyv\n" != out {
		t.Errorf("stream.write output = %q, want raw bytes followed by yv", out)
	}
}

func TestHandleStreamRead(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	sink := &bytes.Buffer{}
	id := gw.PutNewObject(sink)

	out := runHandler(t, gw, handleStream, "read\n"+id+"\n5\ne\nworld")
	if "yv\n" != out {
		t.Errorf("stream.read output = %q, want yv", out)
	}
	if "world" != sink.String() {
		t.Errorf("sink contents = %q, want world", sink.String())
	}
}

func TestHandleStreamUnknownSink(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(42)

	out := runHandler(t, gw, handleStream, "read\n"+id+"\n1\ne\nx")
	if !strings.HasPrefix(out, "!p") {
		t.Errorf("stream against a non-sink = %q, want a protocol error", out)
	}
}

func TestHandleArrayLenGetSet(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject([3]int32{10, 20, 30})

	out := runHandler(t, gw, handleArray, "len\n"+id+"\ne\n")
	if "yi3\n" != out {
		t.Errorf("array len = %q, want yi3", out)
	}

	out = runHandler(t, gw, handleArray, "get\n"+id+"\ni1\ne\n")
	if "yi20\n" != out {
		t.Errorf("array get(1) = %q, want yi20", out)
	}

	out = runHandler(t, gw, handleArray, "set\n"+id+"\ni1\ni99\ne\n")
	if "yi20\n" != out {
		t.Errorf("array set(1, 99) = %q, want yi20 (previous value)", out)
	}
	updated, _ := gw.GetObject(id)
	if arr := updated.([3]int32); 99 != arr[1] {
		t.Errorf("array[1] after set = %d, want 99", arr[1])
	}
}

type intSet struct {
	items []int32
}

func (s *intSet) Size() int { return len(s.items) }

func (s *intSet) Contains(v interface{}) bool {
	n, ok := v.(int32)
	if !ok {
		return false
	}
	for _, x := range s.items {
		if x == n {
			return true
		}
	}
	return false
}

func (s *intSet) Items() []interface{} {
	out := make([]interface{}, len(s.items))
	for i, x := range s.items {
		out[i] = x
	}
	return out
}

func TestHandleSetLenContainsItems(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(&intSet{items: []int32{1, 2, 3}})

	out := runHandler(t, gw, handleSet, "len\n"+id+"\ne\n")
	if "yi3\n" != out {
		t.Errorf("set len = %q, want yi3", out)
	}

	out = runHandler(t, gw, handleSet, "contains\n"+id+"\ni2\ne\n")
	if "ybTrue\n" != out {
		t.Errorf("set contains(2) = %q, want ybTrue", out)
	}

	out = runHandler(t, gw, handleSet, "contains\n"+id+"\ni9\ne\n")
	if "ybFalse\n" != out {
		t.Errorf("set contains(9) = %q, want ybFalse", out)
	}

	out = runHandler(t, gw, handleSet, "items\n"+id+"\ne\n")
	if !strings.HasPrefix(out, "yl") {
		t.Errorf("set items = %q, want a registered list reference", out)
	}
}

func TestHandleSetAgainstNonSet(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(42)

	out := runHandler(t, gw, handleSet, "len\n"+id+"\ne\n")
	if !strings.HasPrefix(out, "!p") {
		t.Errorf("set against a non-set object = %q, want a protocol error", out)
	}
}

func TestHandleHelpListsMembers(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(&widget{Name: "gear"})

	out := runHandler(t, gw, handleHelp, id+"\ne\n")
	if !strings.HasPrefix(out, "ys") {
		t.Fatalf("help = %q, want a string return", out)
	}
	for _, name := range []string{"Bump", "Count", "Greet", "Name"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output %q missing member %q", out, name)
		}
	}
}

func TestHandleDirListsMembersAsList(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(&widget{Name: "gear"})

	out := runHandler(t, gw, handleDir, id+"\ne\n")
	if !strings.HasPrefix(out, "yl") {
		t.Fatalf("dir = %q, want a registered list reference", out)
	}
	listID := strings.TrimSuffix(strings.SplitN(strings.TrimPrefix(out, "yl"), ",", 2)[0], "\n")
	names, ok := gw.GetObject(listID)
	if !ok {
		t.Fatalf("dir did not register its member list under %q", listID)
	}
	got := names.([]string)
	want := []string{"Bump", "Count", "Greet", "Name"}
	if len(got) != len(want) {
		t.Fatalf("dir members = %v, want %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			t.Errorf("dir members = %v, want %v", got, want)
		}
	}
}

func TestHandleHelpUnknownObject(t *testing.T) {
	gw := NewGateway(nil, nil, nil)

	out := runHandler(t, gw, handleHelp, "oMissing\ne\n")
	if !strings.HasPrefix(out, "!o") {
		t.Errorf("help on an unknown id = %q, want an unknown-object error", out)
	}
}

func TestHandleExceptionGetJVMException(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(errors.New("boom"))

	out := runHandler(t, gw, handleException, id+"\ne\n")
	if !strings.HasPrefix(out, "yr") {
		t.Errorf("exception.getJVMException = %q, want a reference", out)
	}
}

func TestHandleExceptionUnknownID(t *testing.T) {
	gw := NewGateway(nil, nil, nil)

	out := runHandler(t, gw, handleException, "oMissing\ne\n")
	if !strings.HasPrefix(out, "!o") {
		t.Errorf("exception.getJVMException on an unknown id = %q, want an unknown-object error", out)
	}
}

func TestHandleReflectionGetUnknownExactImport(t *testing.T) {
	eng := NewReflectEngine()
	eng.Register("acme.Widget", &widget{})
	gw := NewGateway(nil, eng, nil)
	view := gw.Views().Default()
	view.Import("acme.Widget")

	out := runHandler(t, gw, handleReflection, "getUnknown\nacme.Widget\n"+view.ID+"\ne\n")
	if "yrz:acme.Widget\n" != out {
		t.Errorf("reflection.getUnknown(exact import) = %q, want yrz:acme.Widget", out)
	}
}

func TestHandleReflectionGetUnknownWildcardImport(t *testing.T) {
	eng := NewReflectEngine()
	eng.Register("acme.Widget", &widget{})
	gw := NewGateway(nil, eng, nil)
	view := gw.Views().Default()
	view.Import("acme.*")

	out := runHandler(t, gw, handleReflection, "getUnknown\nWidget\n"+view.ID+"\ne\n")
	if "yrz:acme.Widget\n" != out {
		t.Errorf("reflection.getUnknown(wildcard import) = %q, want yrz:acme.Widget", out)
	}
}

func TestHandleReflectionGetUnknownFallsBackToEngine(t *testing.T) {
	eng := NewReflectEngine()
	eng.Register("acme.Widget", &widget{})
	gw := NewGateway(nil, eng, nil)
	view := gw.Views().Default()

	out := runHandler(t, gw, handleReflection, "getUnknown\nacme.Widget\n"+view.ID+"\ne\n")
	if "yrz:acme.Widget\n" != out {
		t.Errorf("reflection.getUnknown(engine fallback) = %q, want yrz:acme.Widget", out)
	}
}

func TestHandleReflectionGetUnknownClassifiesAsPackage(t *testing.T) {
	gw := NewGateway(nil, NewReflectEngine(), nil)
	view := gw.Views().Default()

	out := runHandler(t, gw, handleReflection, "getUnknown\nacme.Missing\n"+view.ID+"\ne\n")
	if "ypacme.Missing\n" != out {
		t.Errorf("reflection.getUnknown(unresolved) = %q, want ypacme.Missing (package classification always succeeds)", out)
	}
}
