/*
 * view.go
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
	"strconv"
	"strings"
	"sync"
)

// View is a named import scope: a list of single-class imports and
// wildcard package imports, consulted in insertion order when resolving
// a bare name via reflection.getUnknown.
type View struct {
	ID   string
	Name string

	mux     sync.Mutex
	imports []string // exact fqn, or "pkg.prefix.*" for a wildcard
}

func newView(id, name string) *View {
	return &View{ID: id, Name: name}
}

// Import records a class or wildcard-package import.
func (self *View) Import(fqn string) {
	self.mux.Lock()
	defer self.mux.Unlock()
	self.imports = append(self.imports, fqn)
}

// Resolve looks for name among this view's imports. An exact import
// match wins; otherwise the first wildcard import whose package prefix,
// combined with name, was already registered with the engine wins;
// otherwise name itself is tried as a fully qualified name.
// Resolve only tells the caller which fqn to try against the reflection
// engine — it never talks to the engine itself.
func (self *View) Resolve(name string, known func(fqn string) bool) (fqn string, found bool) {
	self.mux.Lock()
	imports := append([]string(nil), self.imports...)
	self.mux.Unlock()

	for _, imp := range imports {
		if imp == name {
			return imp, true
		}
	}
	for _, imp := range imports {
		if strings.HasSuffix(imp, ".*") {
			candidate := strings.TrimSuffix(imp, "*") + name
			if known(candidate) {
				return candidate, true
			}
		}
	}

	if known(name) {
		return name, true
	}

	return "", false
}

// ViewRegistry owns the default view plus any views created by
// jvmview.create.
type ViewRegistry struct {
	mux     sync.Mutex
	counter int
	views   map[string]*View
}

// NewViewRegistry creates a registry seeded with an empty default view.
func NewViewRegistry() *ViewRegistry {
	r := &ViewRegistry{views: make(map[string]*View)}
	r.views[DefaultViewID] = newView(DefaultViewID, "default")
	return r
}

// Default returns the always-present default view.
func (self *ViewRegistry) Default() *View {
	return self.views[DefaultViewID]
}

// Create allocates a new view with the given display name and returns
// it. View ids are never reused within a process lifetime.
func (self *ViewRegistry) Create(name string) *View {
	self.mux.Lock()
	defer self.mux.Unlock()
	self.counter++
	id := "v" + strconv.Itoa(self.counter)
	view := newView(id, name)
	self.views[id] = view
	return view
}

// Get looks up a view by id.
func (self *ViewRegistry) Get(id string) (*View, bool) {
	self.mux.Lock()
	defer self.mux.Unlock()
	v, ok := self.views[id]
	return v, ok
}
