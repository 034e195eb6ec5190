// Package markup holds a minimal SVG element tree. The engine never
// renders markup itself; it only needs to find elements by id, attach
// or remove animation directives and rewrite attributes, then hand the
// serialized result back to whatever surface paints it.
package markup

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element with its attributes and children. Text keeps any
// character data found directly inside the element.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

// Parse reads an XML document into a Node tree. Element namespaces are
// dropped; literal xmlns declarations survive as plain attributes so a
// round-tripped document stays a valid standalone SVG.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("markup parse: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name.Local}
	for _, a := range start.Attr {
		n.Attrs = append(n.Attrs, Attr{Name: attrName(a.Name), Value: a.Value})
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("markup parse %q: %w", n.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			if s := strings.TrimSpace(string(t)); s != "" {
				n.Text += s
			}
		case xml.EndElement:
			return n, nil
		}
	}
}

func attrName(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	case "xlink", "http://www.w3.org/1999/xlink":
		// The decoder reports the resolved namespace URI when the
		// prefix is declared and the bare prefix when it is not.
		return "xlink:" + name.Local
	case "xml", "http://www.w3.org/XML/1998/namespace":
		return "xml:" + name.Local
	default:
		// Unknown foreign prefixes keep only the local part.
		return name.Local
	}
}

// Attr returns the named attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// DelAttr removes the named attribute if present.
func (n *Node) DelAttr(name string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// ByID finds the element whose id attribute matches, depth first.
func (n *Node) ByID(id string) *Node {
	if v, ok := n.Attr("id"); ok && v == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.ByID(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits every node depth first, parents before children.
func (n *Node) Walk(visit func(node *Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// RemoveChildren drops direct children matching the predicate and
// returns how many were removed.
func (n *Node) RemoveChildren(match func(c *Node) bool) int {
	kept := n.Children[:0]
	removed := 0
	for _, c := range n.Children {
		if match(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept
	return removed
}

// Clone deep-copies the subtree.
func (n *Node) Clone() *Node {
	c := &Node{Name: n.Name, Text: n.Text}
	c.Attrs = append([]Attr(nil), n.Attrs...)
	for _, child := range n.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

// String serializes the subtree back to markup.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(escape(a.Value))
		b.WriteByte('"')
	}
	if len(n.Children) == 0 && n.Text == "" {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	if n.Text != "" {
		b.WriteString(escape(n.Text))
	}
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Name)
	b.WriteByte('>')
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
