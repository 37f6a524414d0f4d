// Package document splits extracted statement lines into logical pages.
package document

import "regexp"

// Page is the run of lines between two page-end markers. Number is 1-based
// in segmentation order, which can differ from the printed page number when
// extraction started past page one.
type Page struct {
	Number int
	Lines  []string
}

// Document holds the pages of one statement file. It is never modified
// after New returns.
type Document struct {
	source string
	pages  []Page
}

// Segment scans lines once and closes a page at every line matching
// pageEnd. Marker lines are not part of any page, and lines after the last
// marker are dropped: every page must be terminated to be kept.
func Segment(lines []string, pageEnd *regexp.Regexp) []Page {
	var pages []Page
	start := 0
	for i, line := range lines {
		if !pageEnd.MatchString(line) {
			continue
		}
		block := make([]string, i-start)
		copy(block, lines[start:i])
		pages = append(pages, Page{Number: len(pages) + 1, Lines: block})
		start = i + 1
	}
	return pages
}

// New segments normalized lines into a Document.
func New(source string, lines []string, pageEnd *regexp.Regexp) *Document {
	return &Document{source: source, pages: Segment(lines, pageEnd)}
}

// Source names the file the document was read from.
func (d *Document) Source() string {
	return d.source
}

// PageCount returns the number of logical pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Pages returns a copy of the pages.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, p := range d.pages {
		lines := make([]string, len(p.Lines))
		copy(lines, p.Lines)
		out[i] = Page{Number: p.Number, Lines: lines}
	}
	return out
}

// Each calls fn for every line in page order, then line order, stopping at
// the first error.
func (d *Document) Each(fn func(page int, line string) error) error {
	for _, p := range d.pages {
		for _, line := range p.Lines {
			if err := fn(p.Number, line); err != nil {
				return err
			}
		}
	}
	return nil
}
