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

/*
Package app is the application shared by the server and the browser: its
routes, views, state and store factory.

Both sides call Mount with a fresh store and their own routing boundary: the
server with a route.Static fixed to the request location, the browser with a
history-aware router. As long as both start from InitialState, both produce
the same view tree for the same location, which is what lets the browser
hydrate the server-rendered markup.
*/
package app

import (
	"github.com/thediveo/ssrserve/route"
	"github.com/thediveo/ssrserve/view"
)

// Mount syncs the store to the router's location and returns the view tree.
func Mount(s *Store, r route.Router) *view.Node {
	s.Dispatch(Navigate(r.Location()))
	return Tree(s, r)
}

// ServerTree returns the view tree for a single server-side render of the
// specified location, using a new store.
func ServerTree(location string) *view.Node {
	return Mount(NewStore(), route.NewStatic(location))
}
