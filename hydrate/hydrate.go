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
Package hydrate attaches view trees onto existing DOM that was rendered from
an equivalent view tree on the server, making the static markup interactive
without rendering it from scratch.

The DOM is accessed only through the Element interface. The browser client
implements it on top of syscall/js, while HTMLDOM implements it on top of
golang.org/x/net/html for checking server output without a browser.
*/
package hydrate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thediveo/ssrserve/view"
)

// ErrMismatch signals that the DOM does not structurally match the view tree.
var ErrMismatch = errors.New("hydration mismatch")

// MismatchError describes where and how the DOM and the view tree diverge.
type MismatchError struct {
	Path   string // location of the offending node, such as "#root/div[0]/p[1]".
	Reason string
}

// Error returns a description of the mismatch.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrMismatch, e.Path, e.Reason)
}

// Is makes MismatchErrors match ErrMismatch.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// Element is a DOM node as seen by hydration.
type Element interface {
	// Tag returns the lower-case tag name of an element, or "" for text nodes.
	Tag() string
	// Text returns the contents of a text node.
	Text() string
	// Attr returns the value of the named attribute and true, if present.
	Attr(key string) (string, bool)
	// Children returns the element and text child nodes.
	Children() []Element
	// Listen attaches an event listener.
	Listen(event string, fn func(view.Event))
}

type binding struct {
	el      Element
	handler view.Handler
}

// Root hydrates the view tree n onto the DOM children of the container root.
// The DOM is checked in full before any event listener gets attached, so a
// mismatch leaves the DOM untouched. The returned error then wraps
// ErrMismatch.
func Root(root Element, n *view.Node) error {
	var bindings []binding
	if err := children(root.Children(), []*view.Node{n}, rootPath(root), &bindings); err != nil {
		return err
	}
	for _, b := range bindings {
		b.el.Listen(b.handler.Event, b.handler.Fn)
	}
	return nil
}

// Count returns the number of event handlers in the view tree n, that is, the
// number of listeners a successful hydration attaches.
func Count(n *view.Node) int {
	if n == nil {
		return 0
	}
	count := len(n.Handlers)
	for _, child := range n.Children {
		count += Count(child)
	}
	return count
}

func rootPath(root Element) string {
	if id, ok := root.Attr("id"); ok {
		return "#" + id
	}
	return root.Tag()
}

func children(els []Element, nodes []*view.Node, at string, bindings *[]binding) error {
	nodes = Flatten(nodes)
	if len(els) != len(nodes) {
		return &MismatchError{
			Path:   at,
			Reason: fmt.Sprintf("expected %d child nodes, found %d", len(nodes), len(els)),
		}
	}
	for idx, n := range nodes {
		if err := node(els[idx], n, fmt.Sprintf("%s/%s[%d]", at, name(n), idx), bindings); err != nil {
			return err
		}
	}
	return nil
}

func node(el Element, n *view.Node, at string, bindings *[]binding) error {
	if n.Kind == view.KindText {
		if el.Tag() != "" {
			return &MismatchError{Path: at, Reason: fmt.Sprintf("expected text, found <%s>", el.Tag())}
		}
		if el.Text() != n.Text {
			return &MismatchError{Path: at, Reason: fmt.Sprintf("expected text %q, found %q", n.Text, el.Text())}
		}
		return nil
	}
	if el.Tag() != n.Tag {
		found := "text"
		if el.Tag() != "" {
			found = "<" + el.Tag() + ">"
		}
		return &MismatchError{Path: at, Reason: fmt.Sprintf("expected <%s>, found %s", n.Tag, found)}
	}
	for _, a := range n.Attrs {
		value, ok := el.Attr(a.Key)
		if !ok || value != a.Value {
			return &MismatchError{
				Path:   at,
				Reason: fmt.Sprintf("expected %s=%q, found %q", a.Key, a.Value, value),
			}
		}
	}
	for _, h := range n.Handlers {
		*bindings = append(*bindings, binding{el: el, handler: h})
	}
	return children(el.Children(), n.Children, at, bindings)
}

func name(n *view.Node) string {
	if n.Kind == view.KindText {
		return "#text"
	}
	return n.Tag
}

// Flatten returns the nodes as they end up in a parsed DOM: nil and empty
// text nodes vanish, and adjacent text nodes merge into one.
func Flatten(nodes []*view.Node) []*view.Node {
	flat := make([]*view.Node, 0, len(nodes))
	var text strings.Builder
	intext := false
	flush := func() {
		if intext && text.Len() > 0 {
			flat = append(flat, view.Text(text.String()))
		}
		text.Reset()
		intext = false
	}
	for _, n := range nodes {
		switch {
		case n == nil:
		case n.Kind == view.KindText:
			text.WriteString(n.Text)
			intext = true
		default:
			flush()
			flat = append(flat, n)
		}
	}
	flush()
	return flat
}
