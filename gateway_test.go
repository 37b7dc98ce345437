/*
 * gateway_test.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "testing"

func TestGatewayStartupInstallsWellKnownIDs(t *testing.T) {
	entry := &widget{Name: "root"}
	gw := NewGateway(entry, nil, nil)
	gw.Startup()

	if !gw.IsStarted() {
		t.Fatal("IsStarted() = false after Startup")
	}
	obj, ok := gw.GetObject(EntryPointID)
	if !ok || obj != entry {
		t.Errorf("GetObject(EntryPointID) = %v, %v, want entry point", obj, ok)
	}
	if _, ok := gw.GetObject(DefaultViewID); !ok {
		t.Error("default view not installed under DefaultViewID")
	}
}

func TestGatewayShutdownClearsRegistry(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	gw.Startup()
	id := gw.PutNewObject(42)
	gw.Shutdown()

	if gw.IsStarted() {
		t.Error("IsStarted() = true after Shutdown")
	}
	if _, ok := gw.GetObject(id); ok {
		t.Error("object still bound after Shutdown")
	}
}

func TestGatewayInvokeConstructorAndMethod(t *testing.T) {
	eng := NewReflectEngine()
	eng.Register("acme.Widget", &widget{})
	gw := NewGateway(nil, eng, nil)
	gw.Startup()

	ret, err := gw.InvokeConstructor("acme.Widget", []interface{}{"gear", int32(1)})
	if nil != err {
		t.Fatalf("InvokeConstructor: %v", err)
	}
	if KindReference != ret.Kind {
		t.Fatalf("constructor result kind = %v, want KindReference", ret.Kind)
	}

	result, err := gw.Invoke("Greet", ret.ID, []interface{}{"hi "})
	if nil != err {
		t.Fatalf("Invoke: %v", err)
	}
	if KindPrimitive != result.Kind || "hi gear" != result.Value {
		t.Errorf("Invoke result = %+v, want primitive \"hi gear\"", result)
	}
}

func TestGatewayInvokeUnknownTarget(t *testing.T) {
	gw := NewGateway(nil, nil, nil)
	gw.Startup()
	if _, err := gw.Invoke("Anything", "o999", nil); nil == err {
		t.Fatal("expected UnknownObjectError for unbound target")
	}
}
