package wordml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	commentNode
	procInstNode
	directiveNode
)

// node is one item of a raw XML tree. Element names keep their source
// prefix in Name.Space, so writing the tree back does not rename anything.
type node struct {
	kind     nodeKind
	name     xml.Name
	attrs    []xml.Attr
	children []*node
	data     []byte
}

func newElement(prefix, local string, attrs ...xml.Attr) *node {
	return &node{
		kind:  elementNode,
		name:  xml.Name{Space: prefix, Local: local},
		attrs: attrs,
	}
}

func newText(text string) *node {
	return &node{kind: textNode, data: []byte(text)}
}

func attr(prefix, local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: prefix, Local: local}, Value: value}
}

func (n *node) is(prefix, local string) bool {
	return n.kind == elementNode && n.name.Space == prefix && n.name.Local == local
}

func (n *node) child(prefix, local string) *node {
	for _, c := range n.children {
		if c.is(prefix, local) {
			return c
		}
	}
	return nil
}

func (n *node) attr(prefix, local string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name.Space == prefix && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *node) setAttr(prefix, local, value string) {
	for i, a := range n.attrs {
		if a.Name.Space == prefix && a.Name.Local == local {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, attr(prefix, local, value))
}

func (n *node) removeChildren(prefix, local string) {
	kept := n.children[:0]
	for _, c := range n.children {
		if !c.is(prefix, local) {
			kept = append(kept, c)
		}
	}
	n.children = kept
}

// text concatenates the character data directly below n.
func (n *node) text() string {
	var sb strings.Builder
	for _, c := range n.children {
		if c.kind == textNode {
			sb.Write(c.data)
		}
	}
	return sb.String()
}

// parseTree reads a whole XML document into a synthetic root whose
// children are the top level items (prolog, root element, trailing
// comments).
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	root := &node{kind: elementNode}
	stack := []*node{root}

	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			el := &node{
				kind:  elementNode,
				name:  t.Name,
				attrs: append([]xml.Attr(nil), t.Attr...),
			}
			top.children = append(top.children, el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 1 || top.name != t.Name {
				return nil, fmt.Errorf("unexpected closing tag %s", qualifiedName(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, &node{kind: textNode, data: bytes.Clone(t)})
		case xml.Comment:
			top.children = append(top.children, &node{kind: commentNode, data: bytes.Clone(t)})
		case xml.ProcInst:
			top.children = append(top.children, &node{
				kind: procInstNode,
				name: xml.Name{Local: t.Target},
				data: bytes.Clone(t.Inst),
			})
		case xml.Directive:
			top.children = append(top.children, &node{kind: directiveNode, data: bytes.Clone(t)})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed element %s", qualifiedName(stack[len(stack)-1].name))
	}
	return root, nil
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer(
		"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;",
	)
)

func qualifiedName(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// String serializes the children of a synthetic root, or the node itself.
func (n *node) String() string {
	var buf bytes.Buffer
	if n.kind == elementNode && n.name.Local == "" {
		for _, c := range n.children {
			c.write(&buf)
		}
	} else {
		n.write(&buf)
	}
	return buf.String()
}

func (n *node) write(buf *bytes.Buffer) {
	switch n.kind {
	case elementNode:
		buf.WriteByte('<')
		buf.WriteString(qualifiedName(n.name))
		for _, a := range n.attrs {
			buf.WriteByte(' ')
			buf.WriteString(qualifiedName(a.Name))
			buf.WriteString(`="`)
			attrEscaper.WriteString(buf, a.Value)
			buf.WriteByte('"')
		}
		if len(n.children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.children {
			c.write(buf)
		}
		buf.WriteString("</")
		buf.WriteString(qualifiedName(n.name))
		buf.WriteByte('>')
	case textNode:
		textEscaper.WriteString(buf, string(n.data))
	case commentNode:
		buf.WriteString("<!--")
		buf.Write(n.data)
		buf.WriteString("-->")
	case procInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.name.Local)
		if len(n.data) > 0 {
			buf.WriteByte(' ')
			buf.Write(n.data)
		}
		buf.WriteString("?>")
	case directiveNode:
		buf.WriteString("<!")
		buf.Write(n.data)
		buf.WriteByte('>')
	}
}
