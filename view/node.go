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

package view

import "fmt"

// Kind discriminates element nodes from text nodes.
type Kind uint8

const (
	KindElement Kind = iota // <div>, <a>, ...
	KindText                // plain, escaped text
)

// String returns the name of the node kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "element"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Attr is a single element attribute. Attributes keep the order in which they
// were specified, so that rendering the same tree always yields the same
// bytes.
type Attr struct {
	Key   string
	Value string
}

// Event is the minimal view of a DOM event that handlers get to see.
type Event interface {
	PreventDefault()
}

// Handler binds a function to a named DOM event, such as "click". Handlers
// never show up in rendered markup; they are attached during hydration.
type Handler struct {
	Event string
	Fn    func(Event)
}

// Node is a single node of a view tree.
type Node struct {
	Kind     Kind
	Tag      string    // element tag name, lower case.
	Attrs    []Attr    // element attributes in document order.
	Children []*Node   // element children.
	Text     string    // text node contents, unescaped.
	Handlers []Handler // event handlers to attach when hydrating.
}

// El returns a new element node with the specified tag. The args can be
// attributes (Attr), event handlers (Handler), child nodes (*Node, []*Node) or
// strings that become child text nodes. Nil nodes are skipped so that
// conditional children can be written inline.
//
// El panics when passed any other type of arg; renderers recover from such
// panics and report them as render failures.
func El(tag string, args ...any) *Node {
	n := &Node{Kind: KindElement, Tag: tag}
	for _, arg := range args {
		switch a := arg.(type) {
		case nil:
		case Attr:
			n.Attrs = append(n.Attrs, a)
		case []Attr:
			n.Attrs = append(n.Attrs, a...)
		case Handler:
			n.Handlers = append(n.Handlers, a)
		case *Node:
			if a != nil {
				n.Children = append(n.Children, a)
			}
		case []*Node:
			for _, child := range a {
				if child != nil {
					n.Children = append(n.Children, child)
				}
			}
		case string:
			n.Children = append(n.Children, Text(a))
		default:
			panic(fmt.Sprintf("view: unsupported argument of type %T for <%s>", arg, tag))
		}
	}
	return n
}

// Text returns a new text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Textf returns a new text node with formatted contents.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// A returns an attribute.
func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Class returns a "class" attribute.
func Class(value string) Attr { return A("class", value) }

// Href returns an "href" attribute.
func Href(value string) Attr { return A("href", value) }

// On returns a handler for the named DOM event.
func On(event string, fn func(Event)) Handler {
	return Handler{Event: event, Fn: fn}
}

// OnClick returns a "click" event handler.
func OnClick(fn func(Event)) Handler { return On("click", fn) }

// Attr returns the value of the named attribute and true, if present.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// IsInteractive returns true if the node has event handlers attached.
func (n *Node) IsInteractive() bool {
	return n != nil && n.Kind == KindElement && len(n.Handlers) > 0
}
