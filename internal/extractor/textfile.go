package extractor

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// TextFile reads a text dump produced earlier, e.g. by KeepText. The page
// range is ignored; the dump already holds the selected pages.
type TextFile struct{}

func (TextFile) Lines(_ context.Context, req Request) ([]string, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, apperrors.SourceUnavailable(req.Path, err)
	}
	return splitLines(string(data)), nil
}

// ByExtension routes .txt files to Text and everything else to PDF.
type ByExtension struct {
	PDF  Source
	Text Source
}

func (b ByExtension) Lines(ctx context.Context, req Request) ([]string, error) {
	if IsText(req.Path) {
		text := b.Text
		if text == nil {
			text = TextFile{}
		}
		return text.Lines(ctx, req)
	}
	return b.PDF.Lines(ctx, req)
}

// KeepText wraps a source and saves what it extracts next to the document
// as <name>.txt, so the text can be inspected or re-parsed without the PDF.
type KeepText struct {
	Source Source
}

func (k KeepText) Lines(ctx context.Context, req Request) ([]string, error) {
	lines, err := k.Source.Lines(ctx, req)
	if err != nil {
		return nil, err
	}
	if IsText(req.Path) {
		return lines, nil
	}

	path := TextPath(req.Path)
	if err := os.WriteFile(path, []byte(joinLines(lines)), 0o644); err != nil {
		return nil, apperrors.WriteFailed(path, err)
	}
	return lines, nil
}

// TextPath returns the dump location KeepText uses for a document.
func TextPath(docPath string) string {
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".txt"
}
