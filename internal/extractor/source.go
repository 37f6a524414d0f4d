// Package extractor supplies the raw text lines of a statement document.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// Request identifies a document and an inclusive, 1-based page range. A zero
// LastPage means through the last page.
type Request struct {
	Path      string
	FirstPage int
	LastPage  int
}

// Source returns the lines of a document in reading order, with each page's
// footer (the page-end marker) kept as a literal line.
type Source interface {
	Lines(ctx context.Context, req Request) ([]string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, req Request) ([]string, error)

func (f SourceFunc) Lines(ctx context.Context, req Request) ([]string, error) {
	return f(ctx, req)
}

func (r Request) validate() error {
	if r.Path == "" {
		return apperrors.SourceUnavailable(r.Path, errors.New("no document path given"))
	}
	if r.FirstPage < 0 || r.LastPage < 0 {
		return apperrors.SourceUnavailable(r.Path, fmt.Errorf("negative page range %d-%d", r.FirstPage, r.LastPage))
	}
	if r.LastPage > 0 && r.firstPage() > r.LastPage {
		return apperrors.SourceUnavailable(r.Path, fmt.Errorf("start page %d is after end page %d", r.FirstPage, r.LastPage))
	}
	info, err := os.Stat(r.Path)
	if err != nil {
		return apperrors.SourceUnavailable(r.Path, err)
	}
	if info.IsDir() {
		return apperrors.SourceUnavailable(r.Path, errors.New("path is a directory"))
	}
	return nil
}

func (r Request) firstPage() int {
	if r.FirstPage < 1 {
		return 1
	}
	return r.FirstPage
}

var pdfMagic = []byte("%PDF-")

// checkPDF fails unless the file starts with the PDF header.
func checkPDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return apperrors.SourceUnavailable(path, err)
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return apperrors.SourceUnavailable(path, errors.New("file is not a PDF"))
	}
	return nil
}

// IsPDF reports whether path names a PDF by extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// IsText reports whether path names a pre-extracted text dump.
func IsText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// splitLines splits tool output into lines, dropping the final empty line
// left by a trailing newline.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{}
	}
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
