/*
 * gateway.go
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
	"log/slog"
	"sync"
	"sync/atomic"
)

// Gateway manages the object registry, view registry, and reflection
// engine for one bridge. It is the host-side façade described in the
// application-facing entry point into the object registry.
type Gateway struct {
	entryPoint interface{}
	registry   *Registry
	views      *ViewRegistry
	engine     Engine
	peer       PeerClient
	logger     *slog.Logger
	metrics    *Metrics

	mux     sync.Mutex
	started int32
}

// NewGateway creates a Gateway. peer may be nil if the embedding
// application never issues callbacks into the connected process.
func NewGateway(entryPoint interface{}, engine Engine, peer PeerClient) *Gateway {
	if nil == engine {
		engine = NewReflectEngine()
	}
	return &Gateway{
		entryPoint: entryPoint,
		registry:   NewRegistry("o"),
		views:      NewViewRegistry(),
		engine:     engine,
		peer:       peer,
		logger:     slog.Default(),
		metrics:    NewMetrics(),
	}
}

// SetLogger overrides the gateway's logger. Must be called before
// Startup.
func (self *Gateway) SetLogger(logger *slog.Logger) {
	self.logger = logger
}

// SetMetrics overrides the gateway's metrics sink, e.g. to share a
// single Prometheus registry across several gateways in one process.
func (self *Gateway) SetMetrics(metrics *Metrics) {
	self.metrics = metrics
}

// Startup installs the well-known ids: ENTRY_POINT (if one was
// supplied) and DEFAULT_JVM_VIEW.
func (self *Gateway) Startup() {
	self.mux.Lock()
	defer self.mux.Unlock()

	if nil != self.entryPoint {
		self.registry.Put(EntryPointID, self.entryPoint)
	}
	self.registry.Put(DefaultViewID, self.views.Default())
	atomic.StoreInt32(&self.started, 1)
	self.logger.Info("gateway started")
}

// Shutdown clears the registry. Any in-flight command referencing an id
// after Shutdown fails with UnknownObjectError.
func (self *Gateway) Shutdown() {
	atomic.StoreInt32(&self.started, 0)
	self.registry.Clear()
	if nil != self.peer {
		self.peer.Shutdown()
	}
	self.logger.Info("gateway stopped")
}

// IsStarted reports whether Startup has run and Shutdown has not.
func (self *Gateway) IsStarted() bool {
	return 1 == atomic.LoadInt32(&self.started)
}

// Registry exposes the object registry, mainly for command handlers and
// tests.
func (self *Gateway) Registry() *Registry { return self.registry }

// Views exposes the view registry.
func (self *Gateway) Views() *ViewRegistry { return self.views }

// Engine exposes the reflection engine.
func (self *Gateway) Engine() Engine { return self.engine }

// Peer exposes the callback client used for host-initiated calls into
// the connected process. May be nil.
func (self *Gateway) Peer() PeerClient { return self.peer }

// Logger exposes the gateway's logger.
func (self *Gateway) Logger() *slog.Logger { return self.logger }

// Metrics exposes the gateway's metrics sink.
func (self *Gateway) Metrics() *Metrics { return self.metrics }

// recordRoundTrip increments CallbackRoundTrips for one host-initiated
// callback send, labeled by mode ("blocking"/"non-blocking") and outcome
// ("ok", "timeout", or "error").
func (self *Gateway) recordRoundTrip(mode string, err error) {
	outcome := "ok"
	if nil != err {
		outcome = "error"
		if netErr, ok := err.(Err); ok && isTimeoutErr(netErr.Nested()) {
			outcome = "timeout"
		}
	}
	self.metrics.CallbackRoundTrips.WithLabelValues(mode, outcome).Inc()
}

// PutNewObject binds obj under a freshly allocated id.
func (self *Gateway) PutNewObject(obj interface{}) string {
	return self.registry.PutNew(obj)
}

// GetObject looks up id.
func (self *Gateway) GetObject(id string) (interface{}, bool) {
	return self.registry.Get(id)
}

// DeleteObject releases id. Silent no-op if id is unknown.
func (self *Gateway) DeleteObject(id string) {
	self.registry.Delete(id)
}

// ObjectFromID resolves targetID to a bound instance, or nil if it
// carries the static marker (callers then resolve the class name
// themselves).
func (self *Gateway) ObjectFromID(targetID string) (interface{}, error) {
	if _, ok := IsStaticID(targetID); ok {
		return nil, nil
	}
	obj, ok := self.registry.Get(targetID)
	if !ok {
		return nil, MakeUnknownObjectError(targetID)
	}
	return obj, nil
}

// Invoke resolves and calls methodName on targetID (an instance id, or a
// static id addressing a class) with args, and classifies the result.
func (self *Gateway) Invoke(methodName, targetID string, args []interface{}) (ReturnObject, error) {
	target, err := self.ObjectFromID(targetID)
	if nil != err {
		return ReturnObject{}, err
	}

	var fqn string
	if nil == target {
		fqn, _ = IsStaticID(targetID)
	}

	method, err := self.engine.ResolveMethod(target, fqn, methodName, args)
	if nil != err {
		return ReturnObject{}, err
	}

	result, err := self.engine.Invoke(target, method, args)
	if nil != err {
		return ReturnObject{}, self.bindThrowable(err)
	}

	return Classify(self.registry, result), nil
}

// InvokeConstructor resolves and calls the constructor of fqn with args,
// and classifies the result.
func (self *Gateway) InvokeConstructor(fqn string, args []interface{}) (ReturnObject, error) {
	ctor, err := self.engine.ResolveConstructor(fqn, args)
	if nil != err {
		return ReturnObject{}, err
	}

	result, err := self.engine.Invoke(nil, ctor, args)
	if nil != err {
		return ReturnObject{}, self.bindThrowable(err)
	}

	return Classify(self.registry, result), nil
}

// bindThrowable binds a thrown/reflection error's underlying cause in
// the registry so the peer can inspect it by id, and stamps that id into
// the error before returning it, per the error propagation policy.
func (self *Gateway) bindThrowable(err error) error {
	var nested error
	var kind string
	switch e := err.(type) {
	case *InvocationError:
		nested = e.Nested()
		kind = "InvocationError"
	case *ReflectionError:
		nested = e.Nested()
		kind = "ReflectionError"
	default:
		return err
	}

	if nil == nested {
		nested = err
	}
	id := self.registry.PutNew(nested)

	switch kind {
	case "InvocationError":
		return &InvocationError{errData{message: err.Error(), nested: nested, objID: id}}
	case "ReflectionError":
		return &ReflectionError{errData{message: err.Error(), nested: nested, objID: id}}
	default:
		return err
	}
}

// String implements fmt.Stringer for debug logging.
func (self *Gateway) String() string {
	return fmt.Sprintf("Gateway(entryPoint=%v, objects=%d)", nil != self.entryPoint, self.registry.Len())
}
