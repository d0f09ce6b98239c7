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

package app

import (
	"github.com/thediveo/ssrserve/route"
	. "github.com/thediveo/ssrserve/view"
)

type viewFunc func(s *Store, m route.Match) *Node

// Routes declares the application's routes, in the same order as views.
var Routes = route.NewTable("/", "/about", "/users/{id}")

var views = map[string]viewFunc{
	"/":           home,
	"/about":      about,
	"/users/{id}": user,
}

// Tree returns the view tree for the store's current location.
func Tree(s *Store, r route.Router) *Node {
	state := s.State()
	var content *Node
	if m, ok := Routes.Match(state.Location); ok {
		content = views[m.Pattern](s, m)
	} else {
		content = notFound(state)
	}
	return layout(r, content)
}

func layout(r route.Router, content *Node) *Node {
	return El("div", Class("app"),
		El("header",
			El("nav",
				link(r, "/", "Home"), " ",
				link(r, "/about", "About"), " ",
				link(r, "/users/1", "User 1"))),
		El("main", content))
}

// link renders an anchor that navigates in-place when hydrated, yet still
// works as a plain link without any client code.
func link(r route.Router, to, label string) *Node {
	return El("a", Href(to),
		OnClick(func(e Event) {
			e.PreventDefault()
			r.Navigate(to)
		}),
		label)
}

func home(s *Store, _ route.Match) *Node {
	state := s.State()
	return El("section", Class("home"),
		El("h1", "Home"),
		El("p", Textf("Rendered for %s", state.Location)),
		El("p", Textf("Clicked %d times", state.Clicks)),
		El("button", A("type", "button"),
			OnClick(func(Event) { s.Dispatch(Click()) }),
			"Click me"))
}

func about(s *Store, _ route.Match) *Node {
	return El("section", Class("about"),
		El("h1", "About"),
		El("p", Textf("Rendered for %s", s.State().Location)),
		El("p", "Server-rendered with Go, hydrated with Go."))
}

func user(s *Store, m route.Match) *Node {
	return El("section", Class("user"),
		El("h1", Textf("User %s", m.Param("id"))),
		El("p", Textf("Rendered for %s", s.State().Location)))
}

func notFound(state State) *Node {
	return El("section", Class("not-found"),
		El("h1", "Not Found"),
		El("p", Textf("No page at %s", state.Location)))
}
