package titlepage

import (
	"fmt"

	"github.com/ritlepage/backend/fill"
	"github.com/ritlepage/backend/layout"
	"github.com/ritlepage/backend/submission"
	"github.com/ritlepage/backend/wordml"
)

const docxMimeType = wordml.MimeType

// Render fills a template package with sub and applies the page layout.
// It touches neither the filesystem nor the network.
func Render(tmpl []byte, sub *submission.Submission, slots int, scope fill.Scope) ([]byte, fill.Report, error) {
	doc, err := wordml.Open(tmpl)
	if err != nil {
		return nil, fill.Report{}, fmt.Errorf("failed to open template: %w", err)
	}
	defer doc.Close()

	report := fill.Fill(paragraphs(doc), fill.NewTokenTable(*sub, slots), scope)

	if err := layout.Finish(doc); err != nil {
		return nil, report, fmt.Errorf("failed to finish layout: %w", err)
	}

	content, err := doc.Bytes()
	if err != nil {
		return nil, report, fmt.Errorf("failed to serialize document: %w", err)
	}
	return content, report, nil
}

// paragraphs hands the filler one entry per run segment, so collapsing a
// paragraph never moves text across a hyperlink or tracked change.
func paragraphs(doc *wordml.Document) []fill.Paragraph {
	var out []fill.Paragraph
	for _, p := range doc.Paragraphs() {
		for _, seg := range p.Segments() {
			out = append(out, seg)
		}
	}
	return out
}
