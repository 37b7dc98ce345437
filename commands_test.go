/*
 * commands_test.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func runHandler(t *testing.T, gw *Gateway, handler HandlerFunc, input string) string {
	t.Helper()
	reader := bufio.NewReader(strings.NewReader(input))
	var out bytes.Buffer
	writer := bufio.NewWriter(&out)
	if err := handler(gw, nil, reader, writer); nil != err {
		t.Fatalf("handler returned error: %v", err)
	}
	writer.Flush()
	return out.String()
}

func TestHandleCallFamilyConstructorThenCall(t *testing.T) {
	eng := NewReflectEngine()
	eng.Register("acme.Widget", &widget{})
	gw := NewGateway(nil, eng, nil)
	gw.Startup()

	out := runHandler(t, gw, handleCallFamily, "constructor\nacme.Widget\nsgear\ni3\ne\n")
	if !strings.HasPrefix(out, "yr") {
		t.Fatalf("constructor response = %q, want a reference", out)
	}
	id := strings.TrimSuffix(strings.TrimPrefix(out, "yr"), "\n")

	out = runHandler(t, gw, handleCallFamily, "call\nGreet\n"+id+"\nshi \ne\n")
	if "yshi gear\n" != out {
		t.Errorf("call response = %q, want yshi gear", out)
	}
}

func TestHandleCallFamilyFieldGetSet(t *testing.T) {
	eng := NewReflectEngine()
	gw := NewGateway(nil, eng, nil)
	gw.Startup()
	id := gw.PutNewObject(&widget{Name: "gear"})

	out := runHandler(t, gw, handleCallFamily, "field.get\n"+id+"\nName\ne\n")
	if "yshi gear\n" == out {
		t.Fatalf("unexpected response: %q", out)
	}
	if "ysgear\n" != out {
		t.Errorf("field.get response = %q, want ysgear", out)
	}

	out = runHandler(t, gw, handleCallFamily, "field.set\n"+id+"\nName\nscog\ne\n")
	if "yv\n" != out {
		t.Errorf("field.set response = %q, want yv", out)
	}
}

func TestHandleListOperations(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject([]int32{1, 2, 3})

	out := runHandler(t, gw, handleList, "len\n"+id+"\ne\n")
	if "yi3\n" != out {
		t.Errorf("list len = %q, want yi3", out)
	}

	out = runHandler(t, gw, handleList, "get\n"+id+"\ni1\ne\n")
	if "yi2\n" != out {
		t.Errorf("list get(1) = %q, want yi2", out)
	}

	out = runHandler(t, gw, handleList, "append\n"+id+"\ni4\ne\n")
	if "yi4\n" != out {
		t.Errorf("list append = %q, want yi4 (new length)", out)
	}
}

func TestHandleMapOperations(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(map[string]int32{"a": 1})

	out := runHandler(t, gw, handleMap, "get\n"+id+"\nsa\ne\n")
	if "yi1\n" != out {
		t.Errorf("map get(a) = %q, want yi1", out)
	}

	out = runHandler(t, gw, handleMap, "put\n"+id+"\nsb\ni2\ne\n")
	if "yn\n" != out {
		t.Errorf("map put(b, 2) = %q, want yn (no previous value)", out)
	}
}

func TestHandleMemoryReleaseAndAttach(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	id := gw.PutNewObject(42)

	out := runHandler(t, gw, handleMemory, "attach\n"+id+"\ne\n")
	if "yv\n" != out {
		t.Errorf("attach(bound) = %q, want yv", out)
	}

	out = runHandler(t, gw, handleMemory, "release\n"+id+"\ne\n")
	if "yv\n" != out {
		t.Errorf("release = %q, want yv", out)
	}

	out = runHandler(t, gw, handleMemory, "attach\n"+id+"\ne\n")
	if !strings.HasPrefix(out, "!o") {
		t.Errorf("attach(released) = %q, want unknown-object error", out)
	}
}

func TestHandleJVMViewCreateAndImport(t *testing.T) {
	gw := NewGateway(nil, NewReflectEngine(), nil)

	out := runHandler(t, gw, handleJVMView, "create\nmyview\ne\n")
	if !strings.HasPrefix(out, "yr") {
		t.Fatalf("jvmview.create = %q, want a reference", out)
	}
	viewID := strings.TrimSuffix(strings.TrimPrefix(out, "yr"), "\n")

	out = runHandler(t, gw, handleJVMView, "import\n"+viewID+"\nacme.*\ne\n")
	if "yv\n" != out {
		t.Errorf("jvmview.import = %q, want yv", out)
	}
}
