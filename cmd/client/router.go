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
	"syscall/js"

	"github.com/thediveo/ssrserve/app"
	"github.com/thediveo/ssrserve/route"
)

// browserRouter binds a route.History to the browser's location and history.
type browserRouter struct {
	route.History
	popstate js.Func
}

func newBrowserRouter(s *app.Store) *browserRouter {
	return &browserRouter{
		History: route.History{
			Pathname: func() string {
				return js.Global().Get("location").Get("pathname").String()
			},
			Push: func(pathname string) {
				js.Global().Get("history").Call("pushState", nil, "", pathname)
			},
			Changed: func(location string) {
				s.Dispatch(app.Navigate(location))
			},
		},
	}
}

// listen follows the back and forward buttons.
func (r *browserRouter) listen() {
	r.popstate = js.FuncOf(func(js.Value, []js.Value) any {
		r.Moved()
		return nil
	})
	js.Global().Call("addEventListener", "popstate", r.popstate)
}
