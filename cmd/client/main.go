//go:build js && wasm

// Copyright 2026 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// client is the browser entry point of the application: it hydrates the
// server-rendered markup, making the page interactive.
//
// Build it using "ssrserve build", which compiles it for GOOS=js GOARCH=wasm
// and bundles the index.js loader that rendered documents refer to.
package main

import (
	"syscall/js"

	"github.com/thediveo/ssrserve/app"
	"github.com/thediveo/ssrserve/hydrate"
	"github.com/thediveo/ssrserve/view"
)

// rootID must match the id of the element the server renders into.
const rootID = "root"

func main() {
	root := js.Global().Get("document").Call("getElementById", rootID)
	if root.IsNull() {
		console("error", "no #"+rootID+" element to hydrate")
		return
	}
	c := &client{root: root}
	c.start()
	select {} // keep the event handlers alive.
}

// client owns the store and the DOM below the root element.
type client struct {
	root   js.Value
	store  *app.Store
	router *browserRouter
	funcs  []js.Func // event listeners attached by the latest hydration.
}

func (c *client) start() {
	c.store = app.NewStore()
	c.router = newBrowserRouter(c.store)
	tree := app.Mount(c.store, c.router)
	if err := c.hydrate(tree); err != nil {
		console("warn", err.Error()+"; replacing server-rendered markup")
		c.replace(tree)
	}
	c.store.Subscribe(func(app.State) {
		c.replace(app.Tree(c.store, c.router))
	})
	c.router.listen()
}

func (c *client) hydrate(tree *view.Node) error {
	return hydrate.Root(&element{v: c.root, client: c}, tree)
}

// replace renders the tree into the root element and hydrates it anew.
func (c *client) replace(tree *view.Node) {
	markup, err := view.RenderString(tree)
	if err != nil {
		console("error", err.Error())
		return
	}
	c.release()
	c.root.Set("innerHTML", markup)
	if err := c.hydrate(tree); err != nil {
		console("error", err.Error())
	}
}

// release frees the event listeners of the previous hydration.
func (c *client) release() {
	for _, fn := range c.funcs {
		fn.Release()
	}
	c.funcs = nil
}

func console(level, msg string) {
	js.Global().Get("console").Call(level, msg)
}
