// Package layout applies the fixed page styling of the title page.
package layout

import (
	"fmt"

	"github.com/ritlepage/backend/wordml"
)

// Sectioned is a document whose section properties can be edited.
type Sectioned interface {
	FirstSection() (*wordml.Section, error)
}

// Margins puts one inch on every edge.
var Margins = wordml.Margins{
	Top:    wordml.TwipsPerInch,
	Bottom: wordml.TwipsPerInch,
	Left:   wordml.TwipsPerInch,
	Right:  wordml.TwipsPerInch,
}

var edge = wordml.Border{Val: "single", Size: 20, Space: 24, Color: "000000"}

// PageBorders is a 2.5pt black frame measured from the page edge.
var PageBorders = wordml.PageBorders{
	OffsetFrom: "page",
	Top:        edge,
	Left:       edge,
	Bottom:     edge,
	Right:      edge,
}

// Finish sets the margins and page border of the first section. Running it
// twice gives the same document as running it once.
func Finish(doc Sectioned) error {
	sect, err := doc.FirstSection()
	if err != nil {
		return fmt.Errorf("failed to find first section: %w", err)
	}
	sect.SetMargins(Margins)
	sect.SetPageBorders(PageBorders)
	return nil
}
