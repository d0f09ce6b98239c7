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

package main

import (
	"strings"
	"syscall/js"

	"github.com/thediveo/ssrserve/hydrate"
	"github.com/thediveo/ssrserve/view"
)

// DOM node types.
const (
	elementNode = 1
	textNode    = 3
)

// element adapts a browser DOM node to hydrate.Element.
type element struct {
	v      js.Value
	client *client
}

var _ hydrate.Element = (*element)(nil)

func (e *element) Tag() string {
	if e.v.Get("nodeType").Int() != elementNode {
		return ""
	}
	return strings.ToLower(e.v.Get("tagName").String())
}

func (e *element) Text() string {
	if e.v.Get("nodeType").Int() != textNode {
		return ""
	}
	return e.v.Get("data").String()
}

func (e *element) Attr(key string) (string, bool) {
	if e.v.Get("nodeType").Int() != elementNode || !e.v.Call("hasAttribute", key).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", key).String(), true
}

func (e *element) Children() []hydrate.Element {
	nodes := e.v.Get("childNodes")
	n := nodes.Length()
	els := make([]hydrate.Element, 0, n)
	for idx := 0; idx < n; idx++ {
		node := nodes.Index(idx)
		switch node.Get("nodeType").Int() {
		case elementNode, textNode:
			els = append(els, &element{v: node, client: e.client})
		}
	}
	return els
}

func (e *element) Listen(event string, fn func(view.Event)) {
	listener := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(domEvent{v: ev})
		return nil
	})
	e.client.funcs = append(e.client.funcs, listener)
	e.v.Call("addEventListener", event, listener)
}

type domEvent struct{ v js.Value }

func (e domEvent) PreventDefault() {
	if e.v.Truthy() {
		e.v.Call("preventDefault")
	}
}
