/*
 * registry_test.go
 *
 * Copyright 2024 The py4j-go Authors.
 */
/*
 * This file is part of py4j-go.
 */

package py4j

import "testing"

func TestRegistryPutNewAllocatesSequentialIDs(t *testing.T) {
	reg := NewRegistry("o")
	id0 := reg.PutNew("a")
	id1 := reg.PutNew("b")
	if "o0" != id0 || "o1" != id1 {
		t.Errorf("got ids %q, %q, want o0, o1", id0, id1)
	}
}

func TestRegistryGetDelete(t *testing.T) {
	reg := NewRegistry("o")
	id := reg.PutNew(42)

	v, ok := reg.Get(id)
	if !ok || 42 != v {
		t.Fatalf("Get(%q) = %v, %v, want 42, true", id, v, ok)
	}

	reg.Delete(id)
	if _, ok := reg.Get(id); ok {
		t.Errorf("Get(%q) still found after Delete", id)
	}

	// Deleting again is a silent no-op.
	reg.Delete(id)
}

func TestRegistryStaticIDsAlwaysMiss(t *testing.T) {
	reg := NewRegistry("o")
	reg.bindMap[StaticPrefix+"java.lang.Math"] = "leaked"
	if _, ok := reg.Get(StaticPrefix + "java.lang.Math"); ok {
		t.Error("Get returned a static-prefixed id; registry must never resolve these")
	}
}

func TestIsStaticID(t *testing.T) {
	fqn, ok := IsStaticID("z:java.lang.Math")
	if !ok || "java.lang.Math" != fqn {
		t.Errorf("IsStaticID = %q, %v, want java.lang.Math, true", fqn, ok)
	}
	if _, ok := IsStaticID("o0"); ok {
		t.Error("IsStaticID(o0) = true, want false")
	}
}

func TestRegistryClearAndLen(t *testing.T) {
	reg := NewRegistry("o")
	reg.PutNew(1)
	reg.PutNew(2)
	if 2 != reg.Len() {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
	reg.Clear()
	if 0 != reg.Len() {
		t.Errorf("Len() after Clear = %d, want 0", reg.Len())
	}
}

func TestRegistryPutReplacesAndReportsPrevious(t *testing.T) {
	reg := NewRegistry("o")
	_, had := reg.Put(EntryPointID, "first")
	if had {
		t.Error("first Put reported a previous binding")
	}
	prev, had := reg.Put(EntryPointID, "second")
	if !had || "first" != prev {
		t.Errorf("second Put = %v, %v, want first, true", prev, had)
	}
}
