package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// DefaultPdftotext is the poppler-utils binary looked up on PATH.
const DefaultPdftotext = "pdftotext"

// Pdftotext extracts text with the external pdftotext tool in layout mode.
// Page breaks are suppressed so a transaction split across a physical page
// boundary stays on one logical page.
type Pdftotext struct {
	// Binary overrides the tool path.
	Binary string
}

func (p *Pdftotext) binary() string {
	if p.Binary == "" {
		return DefaultPdftotext
	}
	return p.Binary
}

// Available reports whether the tool can be found.
func (p *Pdftotext) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

// Args returns the command line for req, without the binary.
func (p *Pdftotext) Args(req Request, lastPage int) []string {
	args := []string{
		"-f", strconv.Itoa(req.firstPage()),
		"-l", strconv.Itoa(lastPage),
		"-layout",
		"-enc", "UTF-8",
		"-nopgbrk",
	}
	return append(args, req.Path, "-")
}

func (p *Pdftotext) Lines(ctx context.Context, req Request) ([]string, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := checkPDF(req.Path); err != nil {
		return nil, err
	}

	bin, err := exec.LookPath(p.binary())
	if err != nil {
		return nil, apperrors.SourceUnavailable(req.Path, fmt.Errorf("%s not available: %w", p.binary(), err)).
			WithSuggestion("install poppler-utils or set extraction.pdftotext")
	}

	last := req.LastPage
	if last == 0 {
		n, err := PageCount(req.Path)
		if err != nil {
			return nil, err
		}
		last = n
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, p.Args(req, last)...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, apperrors.SourceUnavailable(req.Path, err)
	}
	return splitLines(string(out)), nil
}
