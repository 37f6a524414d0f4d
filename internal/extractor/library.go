package extractor

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// Library extracts text in-process with github.com/ledongthuc/pdf. It needs
// no external tools but does not preserve column layout as well as
// pdftotext.
type Library struct{}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.SourceUnavailable(path, fmt.Errorf("PDF library crashed: %v", r))
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0, apperrors.SourceUnavailable(path, err)
	}
	defer f.Close()

	n = r.NumPage()
	if n == 0 {
		return 0, apperrors.SourceUnavailable(path, fmt.Errorf("PDF has no pages"))
	}
	return n, nil
}

func (l *Library) Lines(ctx context.Context, req Request) (lines []string, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := checkPDF(req.Path); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = apperrors.SourceUnavailable(req.Path, fmt.Errorf("PDF library crashed: %v", r))
		}
	}()

	f, r, err := pdf.Open(req.Path)
	if err != nil {
		return nil, apperrors.SourceUnavailable(req.Path, err)
	}
	defer f.Close()

	last := r.NumPage()
	if req.LastPage > 0 && req.LastPage < last {
		last = req.LastPage
	}

	lines = []string{}
	for i := req.firstPage(); i <= last; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageLines := byRow(page)
		if len(pageLines) == 0 {
			pageLines = byContent(page)
		}
		lines = append(lines, pageLines...)
	}
	return lines, nil
}

// byRow uses GetTextByRow, which works for most well-structured PDFs.
func byRow(page pdf.Page) []string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil
	}
	var lines []string
	for _, row := range rows {
		parts := make([]string, 0, len(row.Content))
		for _, word := range row.Content {
			parts = append(parts, word.S)
		}
		line := strings.TrimSpace(strings.Join(parts, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// byContent groups raw text objects into rows by Y coordinate and orders
// each row by X, separating wide gaps with extra spaces as column breaks.
func byContent(page pdf.Page) []string {
	content := page.Content()
	if len(content.Text) == 0 {
		return nil
	}

	type item struct {
		x float64
		s string
	}
	rowMap := make(map[int][]item)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		y := int(math.Round(t.Y))
		rowMap[y] = append(rowMap[y], item{x: t.X, s: t.S})
	}

	// PDF Y grows bottom to top.
	ys := make([]int, 0, len(rowMap))
	for y := range rowMap {
		ys = append(ys, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ys)))

	var lines []string
	for _, y := range ys {
		items := rowMap[y]
		sort.Slice(items, func(a, b int) bool { return items[a].x < items[b].x })

		var b strings.Builder
		var prevX float64
		for j, it := range items {
			if j > 0 && it.x-prevX > 15 {
				b.WriteString("  ")
			}
			b.WriteString(it.s)
			prevX = it.x
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
