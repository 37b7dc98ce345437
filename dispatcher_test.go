/*
 * dispatcher_test.go
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

func TestDispatchKnownCommand(t *testing.T) {
	d := &Dispatcher{table: make(map[string]HandlerFunc)}
	called := false
	d.Register("ping", func(gw *Gateway, conn *DuplexConnection, r *bufio.Reader, w *bufio.Writer) error {
		called = true
		return writeLine(w, "ypong")
	})

	gw := NewGateway(nil, nil, nil)
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("ping\n"))
	writer := bufio.NewWriter(&out)

	name, executed, err := d.Dispatch(gw, nil, reader, writer)
	if nil != err {
		t.Fatalf("Dispatch: %v", err)
	}
	if "ping" != name || !executed || !called {
		t.Fatalf("Dispatch = %q, %v, called=%v", name, executed, called)
	}
	if "ypong\n" != out.String() {
		t.Errorf("response = %q, want ypong\\n", out.String())
	}
}

func TestDispatchUnknownCommandIsSilent(t *testing.T) {
	d := &Dispatcher{table: make(map[string]HandlerFunc)}
	gw := NewGateway(nil, nil, nil)
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("mystery\n"))
	writer := bufio.NewWriter(&out)

	name, executed, err := d.Dispatch(gw, nil, reader, writer)
	if nil != err {
		t.Fatalf("Dispatch: %v", err)
	}
	if "mystery" != name || executed {
		t.Errorf("Dispatch = %q, %v, want mystery, false", name, executed)
	}
	if 0 != out.Len() {
		t.Errorf("wrote a response for unknown command: %q", out.String())
	}
}

func TestDispatchStrictUnknownCommand(t *testing.T) {
	d := &Dispatcher{table: make(map[string]HandlerFunc), StrictUnknownCommand: true}
	gw := NewGateway(nil, nil, nil)
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("mystery\n"))
	writer := bufio.NewWriter(&out)

	if _, executed, err := d.Dispatch(gw, nil, reader, writer); nil != err || !executed {
		t.Fatalf("Dispatch = %v, %v", executed, err)
	}
	writer.Flush()
	if !strings.HasPrefix(out.String(), "!p") {
		t.Errorf("response = %q, want protocol-error envelope", out.String())
	}
}

func TestDispatchShutdownCommand(t *testing.T) {
	d := NewDispatcher()
	gw := NewGateway(nil, nil, nil)
	reader := bufio.NewReader(strings.NewReader("q\n"))
	var out bytes.Buffer
	writer := bufio.NewWriter(&out)

	name, executed, err := d.Dispatch(gw, nil, reader, writer)
	if nil != err || "q" != name || executed {
		t.Errorf("Dispatch(q) = %q, %v, %v, want q, false, nil", name, executed, err)
	}
}
