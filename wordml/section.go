package wordml

import (
	"slices"
	"strconv"
)

// TwipsPerInch is the number of twentieths of a point in one inch.
const TwipsPerInch = 1440

type Margins struct {
	Top, Bottom, Left, Right int // twips
}

// Border is one w:pgBorders edge. Size is in eighths of a point, Space in
// points.
type Border struct {
	Val   string
	Size  int
	Space int
	Color string
}

type PageBorders struct {
	OffsetFrom string
	Top        Border
	Left       Border
	Bottom     Border
	Right      Border
}

// Section wraps a w:sectPr element.
type Section struct {
	el *node
	w  string
}

// sectPrOrder is the child sequence of CT_SectPr. New children are inserted
// at their schema position so Word accepts the result.
var sectPrOrder = []string{
	"headerReference", "footerReference", "footnotePr", "endnotePr", "type",
	"pgSz", "pgMar", "paperSrc", "pgBorders", "lnNumType", "pgNumType",
	"cols", "formProt", "vAlign", "noEndnote", "titlePg", "textDirection",
	"bidi", "rtlGutter", "docGrid", "printerSettings", "sectPrChange",
}

// FirstSection returns the properties of the first section in document
// order: a paragraph-level w:sectPr closing a section, or the body-level
// one of a single-section document.
func (doc *Document) FirstSection() (*Section, error) {
	for _, c := range doc.body.children {
		if c.is(doc.w, "p") {
			if pPr := c.child(doc.w, "pPr"); pPr != nil {
				if s := pPr.child(doc.w, "sectPr"); s != nil {
					return &Section{el: s, w: doc.w}, nil
				}
			}
			continue
		}
		if c.is(doc.w, "sectPr") {
			return &Section{el: c, w: doc.w}, nil
		}
	}
	return nil, ErrNoSection
}

func (s *Section) insertOrdered(el *node) {
	rank := slices.Index(sectPrOrder, el.name.Local)
	at := len(s.el.children)
	for i, c := range s.el.children {
		if c.kind != elementNode || c.name.Space != s.w {
			continue
		}
		if r := slices.Index(sectPrOrder, c.name.Local); r > rank {
			at = i
			break
		}
	}
	s.el.children = slices.Insert(s.el.children, at, el)
}

// SetMargins sets the four page margins. Header, footer and gutter
// distances already present are kept.
func (s *Section) SetMargins(m Margins) {
	pgMar := s.el.child(s.w, "pgMar")
	if pgMar == nil {
		pgMar = newElement(s.w, "pgMar",
			attr(s.w, "header", "720"),
			attr(s.w, "footer", "720"),
			attr(s.w, "gutter", "0"),
		)
		s.insertOrdered(pgMar)
	}
	pgMar.setAttr(s.w, "top", strconv.Itoa(m.Top))
	pgMar.setAttr(s.w, "right", strconv.Itoa(m.Right))
	pgMar.setAttr(s.w, "bottom", strconv.Itoa(m.Bottom))
	pgMar.setAttr(s.w, "left", strconv.Itoa(m.Left))
}

func (s *Section) Margins() Margins {
	pgMar := s.el.child(s.w, "pgMar")
	if pgMar == nil {
		return Margins{}
	}
	get := func(name string) int {
		v, _ := pgMar.attr(s.w, name)
		n, _ := strconv.Atoi(v)
		return n
	}
	return Margins{
		Top:    get("top"),
		Bottom: get("bottom"),
		Left:   get("left"),
		Right:  get("right"),
	}
}

// SetPageBorders replaces any existing w:pgBorders.
func (s *Section) SetPageBorders(b PageBorders) {
	s.el.removeChildren(s.w, "pgBorders")

	pgBorders := newElement(s.w, "pgBorders")
	if b.OffsetFrom != "" {
		pgBorders.setAttr(s.w, "offsetFrom", b.OffsetFrom)
	}
	sides := []struct {
		name   string
		border Border
	}{
		{"top", b.Top},
		{"left", b.Left},
		{"bottom", b.Bottom},
		{"right", b.Right},
	}
	for _, side := range sides {
		pgBorders.children = append(pgBorders.children, newElement(s.w, side.name,
			attr(s.w, "val", side.border.Val),
			attr(s.w, "sz", strconv.Itoa(side.border.Size)),
			attr(s.w, "space", strconv.Itoa(side.border.Space)),
			attr(s.w, "color", side.border.Color),
		))
	}
	s.insertOrdered(pgBorders)
}

// PageBorders reads back w:pgBorders; ok is false when there is none.
func (s *Section) PageBorders() (b PageBorders, ok bool) {
	pgBorders := s.el.child(s.w, "pgBorders")
	if pgBorders == nil {
		return PageBorders{}, false
	}
	b.OffsetFrom, _ = pgBorders.attr(s.w, "offsetFrom")
	read := func(name string) Border {
		el := pgBorders.child(s.w, name)
		if el == nil {
			return Border{}
		}
		val, _ := el.attr(s.w, "val")
		color, _ := el.attr(s.w, "color")
		sz, _ := el.attr(s.w, "sz")
		space, _ := el.attr(s.w, "space")
		size, _ := strconv.Atoi(sz)
		spc, _ := strconv.Atoi(space)
		return Border{Val: val, Size: size, Space: spc, Color: color}
	}
	b.Top = read("top")
	b.Left = read("left")
	b.Bottom = read("bottom")
	b.Right = read("right")
	return b, true
}
