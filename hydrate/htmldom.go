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

package hydrate

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/thediveo/ssrserve/view"
)

// HTMLDOM is a DOM parsed from HTML markup, without any browser. Event
// listeners attached during hydration get recorded and can be triggered using
// Fire.
type HTMLDOM struct {
	doc       *html.Node
	listeners map[*html.Node]map[string][]func(view.Event)
}

// ParseHTML parses a complete HTML document.
func ParseHTML(r io.Reader) (*HTMLDOM, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &HTMLDOM{
		doc:       doc,
		listeners: map[*html.Node]map[string][]func(view.Event){},
	}, nil
}

// ParseHTMLString parses a complete HTML document from a string.
func ParseHTMLString(s string) (*HTMLDOM, error) {
	return ParseHTML(strings.NewReader(s))
}

// ElementByID returns the element with the specified id attribute.
func (d *HTMLDOM) ElementByID(id string) (Element, bool) {
	var found *html.Node
	walk(d.doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil, false
	}
	return &htmlElement{dom: d, node: found}, true
}

// Query returns all elements with the specified tag, in document order.
func (d *HTMLDOM) Query(tag string) []Element {
	var els []Element
	walk(d.doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			els = append(els, &htmlElement{dom: d, node: n})
		}
		return true
	})
	return els
}

// Listeners returns the total number of attached event listeners.
func (d *HTMLDOM) Listeners() int {
	count := 0
	for _, events := range d.listeners {
		for _, fns := range events {
			count += len(fns)
		}
	}
	return count
}

// Fire calls the listeners attached to el for the named event, returning true
// if any of them prevented the default action.
func (d *HTMLDOM) Fire(el Element, event string) (prevented bool) {
	hel, ok := el.(*htmlElement)
	if !ok || hel.dom != d {
		return false
	}
	ev := &htmlEvent{}
	for _, fn := range d.listeners[hel.node][event] {
		fn(ev)
	}
	return ev.prevented
}

// walk visits n and its descendants in document order until visit returns
// false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

type htmlElement struct {
	dom  *HTMLDOM
	node *html.Node
}

var _ Element = (*htmlElement)(nil)

func (e *htmlElement) Tag() string {
	if e.node.Type == html.ElementNode {
		return e.node.Data
	}
	return ""
}

func (e *htmlElement) Text() string {
	if e.node.Type == html.TextNode {
		return e.node.Data
	}
	return ""
}

func (e *htmlElement) Attr(key string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (e *htmlElement) Children() []Element {
	var els []Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode, html.TextNode:
			els = append(els, &htmlElement{dom: e.dom, node: c})
		}
	}
	return els
}

func (e *htmlElement) Listen(event string, fn func(view.Event)) {
	events := e.dom.listeners[e.node]
	if events == nil {
		events = map[string][]func(view.Event){}
		e.dom.listeners[e.node] = events
	}
	events[event] = append(events[event], fn)
}

type htmlEvent struct{ prevented bool }

func (e *htmlEvent) PreventDefault() { e.prevented = true }
