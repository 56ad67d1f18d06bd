package wordml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const (
	MainNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	MimeType      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrNoBody    = errors.New("document has no body")
	ErrNoSection = errors.New("document has no section properties")
)

// Document is an opened .docx package whose main part is held as a tree.
// Everything outside word/document.xml is passed through untouched.
type Document struct {
	src  *docx.ReplaceDocx
	pkg  *docx.Docx
	root *node
	body *node
	w    string
}

// Open reads a .docx package from memory.
func Open(data []byte) (*Document, error) {
	src, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read docx package: %w", err)
	}
	pkg := src.Editable()

	doc, err := parseMainPart(pkg.GetContent())
	if err != nil {
		src.Close()
		return nil, err
	}
	doc.src = src
	doc.pkg = pkg
	return doc, nil
}

func parseMainPart(content string) (*Document, error) {
	root, err := parseTree(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse word/document.xml: %w", err)
	}

	var docEl *node
	for _, c := range root.children {
		if c.kind == elementNode {
			docEl = c
			break
		}
	}
	if docEl == nil {
		return nil, ErrNoBody
	}

	w := mainPrefix(docEl)
	body := docEl.child(w, "body")
	if body == nil {
		return nil, ErrNoBody
	}
	return &Document{root: root, body: body, w: w}, nil
}

// mainPrefix finds the prefix bound to the WordprocessingML namespace on
// the root element. Word always writes "w", which is also the fallback.
func mainPrefix(docEl *node) string {
	for _, a := range docEl.attrs {
		if a.Value != MainNamespace {
			continue
		}
		if a.Name.Space == "xmlns" {
			return a.Name.Local
		}
		if a.Name.Space == "" && a.Name.Local == "xmlns" {
			return ""
		}
	}
	return "w"
}

// Paragraphs returns every text-bearing paragraph in document order: body
// paragraphs and the paragraphs of table cells, including nested tables
// and content controls. Paragraphs inside text boxes are not visited.
func (doc *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	doc.collectParagraphs(doc.body, &paras)
	return paras
}

func (doc *Document) collectParagraphs(container *node, out *[]*Paragraph) {
	for _, c := range container.children {
		if c.kind != elementNode || c.name.Space != doc.w {
			continue
		}
		switch c.name.Local {
		case "p":
			*out = append(*out, &Paragraph{el: c, w: doc.w})
		case "tbl", "tr", "tc", "sdt", "sdtContent", "customXml":
			doc.collectParagraphs(c, out)
		}
	}
}

// PlainText joins the text of all paragraphs with newlines.
func (doc *Document) PlainText() string {
	paras := doc.Paragraphs()
	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = p.Text()
	}
	return strings.Join(lines, "\n")
}

// MainPart returns the current serialized word/document.xml.
func (doc *Document) MainPart() string {
	return doc.root.String()
}

// Write serializes the whole package.
func (doc *Document) Write(w io.Writer) error {
	doc.pkg.SetContent(doc.MainPart())
	if err := doc.pkg.Write(w); err != nil {
		return fmt.Errorf("failed to write docx package: %w", err)
	}
	return nil
}

func (doc *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (doc *Document) Close() error {
	if doc.src == nil {
		return nil
	}
	err := doc.src.Close()
	doc.src = nil
	return err
}
