package wordml

import (
	"slices"
	"strings"
)

// Paragraph is a w:p element. Its runs are the w:r elements directly
// below it; runs inside hyperlinks or tracked changes are not included.
type Paragraph struct {
	el *node
	w  string
}

func (p *Paragraph) runs() []*node {
	var runs []*node
	for _, c := range p.el.children {
		if c.is(p.w, "r") {
			runs = append(runs, c)
		}
	}
	return runs
}

// Runs returns the text of each run in order.
func (p *Paragraph) Runs() []string {
	return p.runTexts(p.runs())
}

// SetRuns replaces the text of each run with the matching entry of texts.
// Run properties and non-text run content are kept. Entries beyond the
// number of runs are ignored.
func (p *Paragraph) SetRuns(texts []string) {
	p.setRunTexts(p.runs(), texts)
}

// Segments splits the direct runs into groups of adjacent runs. A sibling
// that holds runs of its own, such as w:hyperlink, w:ins or w:fldSimple,
// ends a group. Bookmarks and proofing marks do not.
func (p *Paragraph) Segments() []*Segment {
	var segs []*Segment
	var cur []*node
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, &Segment{p: p, runs: cur})
			cur = nil
		}
	}
	for _, c := range p.el.children {
		switch {
		case c.is(p.w, "r"):
			cur = append(cur, c)
		case p.holdsRuns(c):
			flush()
		}
	}
	flush()
	return segs
}

func (p *Paragraph) holdsRuns(n *node) bool {
	for _, c := range n.children {
		if c.is(p.w, "r") || p.holdsRuns(c) {
			return true
		}
	}
	return false
}

// Segment is a group of adjacent runs of one paragraph.
type Segment struct {
	p    *Paragraph
	runs []*node
}

func (s *Segment) Runs() []string {
	return s.p.runTexts(s.runs)
}

func (s *Segment) SetRuns(texts []string) {
	s.p.setRunTexts(s.runs, texts)
}

func (p *Paragraph) runTexts(runs []*node) []string {
	texts := make([]string, len(runs))
	for i, r := range runs {
		texts[i] = p.runText(r)
	}
	return texts
}

func (p *Paragraph) setRunTexts(runs []*node, texts []string) {
	for i, r := range runs {
		if i >= len(texts) {
			return
		}
		p.setRunText(r, texts[i])
	}
}

func (p *Paragraph) Text() string {
	return strings.Join(p.Runs(), "")
}

// isTextContent reports whether c contributes to run text: w:t, w:tab and
// line breaks. Page and column breaks are layout, not text.
func (p *Paragraph) isTextContent(c *node) bool {
	switch {
	case c.is(p.w, "t"), c.is(p.w, "tab"), c.is(p.w, "cr"):
		return true
	case c.is(p.w, "br"):
		typ, ok := c.attr(p.w, "type")
		return !ok || typ == "textWrapping"
	}
	return false
}

func (p *Paragraph) runText(r *node) string {
	var sb strings.Builder
	for _, c := range r.children {
		if !p.isTextContent(c) {
			continue
		}
		switch c.name.Local {
		case "t":
			sb.WriteString(c.text())
		case "tab":
			sb.WriteByte('\t')
		default:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (p *Paragraph) setRunText(r *node, text string) {
	kept := make([]*node, 0, len(r.children))
	insertAt := -1
	for _, c := range r.children {
		if p.isTextContent(c) {
			if insertAt < 0 {
				insertAt = len(kept)
			}
			continue
		}
		kept = append(kept, c)
	}
	if insertAt < 0 {
		insertAt = len(kept)
	}
	r.children = slices.Insert(kept, insertAt, p.textElements(text)...)
}

// textElements renders text as w:t elements separated by w:tab for tabs
// and w:br for newlines. Characters XML cannot carry are dropped.
func (p *Paragraph) textElements(text string) []*node {
	var out []*node
	var sb strings.Builder
	flush := func() {
		if sb.Len() == 0 {
			return
		}
		t := newElement(p.w, "t", attr("xml", "space", "preserve"))
		t.children = []*node{newText(sb.String())}
		out = append(out, t)
		sb.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			out = append(out, newElement(p.w, "tab"))
		case '\n':
			flush()
			out = append(out, newElement(p.w, "br"))
		default:
			if xmlChar(ch) {
				sb.WriteRune(ch)
			}
		}
	}
	flush()
	return out
}

func xmlChar(r rune) bool {
	switch {
	case r == '\r':
		return true
	case r < 0x20:
		return false
	case r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return r <= 0x10FFFF
}
