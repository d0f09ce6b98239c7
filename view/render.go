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

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrInvalidNode is returned when a view tree cannot be rendered to markup,
// such as an element without a tag or a void element with children.
var ErrInvalidNode = errors.New("invalid view node")

// voidElements never have closing tags nor children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoid returns true if the specified tag denotes a void element.
func IsVoid(tag string) bool {
	return voidElements[tag]
}

// Render writes the markup of the view tree rooted at n to w. Nothing gets
// written if the tree turns out to be invalid.
func Render(w io.Writer, n *Node) error {
	s, err := RenderString(n)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// RenderString returns the markup of the view tree rooted at n. Rendering is
// deterministic: the same tree always renders to the same string.
func RenderString(n *Node) (string, error) {
	var b strings.Builder
	if err := render(&b, n, "0"); err != nil {
		return "", err
	}
	return b.String(), nil
}

func render(b *strings.Builder, n *Node, at string) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindText:
		b.WriteString(html.EscapeString(n.Text))
		return nil
	case KindElement:
	default:
		return fmt.Errorf("%w: unknown %s at %s", ErrInvalidNode, n.Kind, at)
	}
	if !validName(n.Tag) {
		return fmt.Errorf("%w: bad tag %q at %s", ErrInvalidNode, n.Tag, at)
	}
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		if !validName(a.Key) {
			return fmt.Errorf("%w: bad attribute %q on <%s> at %s",
				ErrInvalidNode, a.Key, n.Tag, at)
		}
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if IsVoid(n.Tag) {
		if len(n.Children) != 0 {
			return fmt.Errorf("%w: void element <%s> with children at %s",
				ErrInvalidNode, n.Tag, at)
		}
		return nil
	}
	for idx, child := range n.Children {
		if err := render(b, child, fmt.Sprintf("%s.%d", at, idx)); err != nil {
			return err
		}
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
	return nil
}

// validName accepts lower-case tag and attribute names made of ASCII letters,
// digits and dashes, starting with a letter.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for idx, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case idx > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}
