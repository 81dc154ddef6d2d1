// internal/app/system/overlay/node.go
package overlay

import (
	"html"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

var nodeSeq atomic.Uint64

// Node is a minimal element tree. It is what the dialog renders and what
// pointer events target, so containment checks walk parent links.
type Node struct {
	ID       string
	Tag      string
	Classes  []string
	Attrs    map[string]string
	Text     string // escaped on render
	RawHTML  string // written as-is; callers sanitize it first
	Children []*Node

	parent *Node
}

// El builds an element with a generated id and the given class list.
func El(tag, class string, children ...*Node) *Node {
	n := &Node{
		ID:      "n" + strconv.FormatUint(nodeSeq.Add(1), 10),
		Tag:     tag,
		Classes: strings.Fields(class),
	}
	n.Append(children...)
	return n
}

// ElText builds a childless element holding escaped text.
func ElText(tag, class, text string) *Node {
	n := El(tag, class)
	n.Text = text
	return n
}

// Append adds children and sets their parent to n.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// SetAttr sets an attribute and returns n for chaining.
func (n *Node) SetAttr(key, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
	return n
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	if n == nil {
		return false
	}
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Find returns the node with the given id in n's subtree.
func (n *Node) Find(id string) *Node {
	if n == nil {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(id); f != nil {
			return f
		}
	}
	return nil
}

// HasClass reports whether class is in the node's class list.
func (n *Node) HasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// HTML returns the rendered subtree. Each element carries its id in
// data-node so the browser can report pointer targets back.
func (n *Node) HTML() string {
	var b strings.Builder
	n.render(&b)
	return b.String()
}

func (n *Node) render(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(n.Tag)
	b.WriteString(` data-node="`)
	b.WriteString(html.EscapeString(n.ID))
	b.WriteString(`"`)
	if len(n.Classes) > 0 {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(strings.Join(n.Classes, " ")))
		b.WriteString(`"`)
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(html.EscapeString(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(n.Attrs[k]))
		b.WriteString(`"`)
	}
	if isVoid(n.Tag) {
		b.WriteString(">")
		return
	}
	b.WriteString(">")
	b.WriteString(html.EscapeString(n.Text))
	b.WriteString(n.RawHTML)
	for _, c := range n.Children {
		c.render(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteString(">")
}

func isVoid(tag string) bool {
	switch tag {
	case "input", "br", "hr", "img", "meta", "link":
		return true
	}
	return false
}

// mergeClasses joins class lists, dropping duplicates while keeping order.
func mergeClasses(lists ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, l := range lists {
		for _, c := range strings.Fields(l) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
