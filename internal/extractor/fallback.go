package extractor

import (
	"context"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

// Fallback tries each source in order and returns the first readable
// result. Context cancellation stops the chain immediately.
type Fallback []Source

func (f Fallback) Lines(ctx context.Context, req Request) ([]string, error) {
	var errs []string
	for _, src := range f {
		lines, err := src.Lines(ctx, req)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if Readable(lines) {
			return lines, nil
		}
		errs = append(errs, "extracted text is not readable")
	}
	if len(errs) == 0 {
		return nil, apperrors.SourceUnavailable(req.Path, errors.New("no text sources configured"))
	}
	return nil, apperrors.SourceUnavailable(req.Path, errors.New(strings.Join(errs, "; "))).
		WithSuggestion("the PDF may be image-based; export its text to a .txt file and parse that instead")
}

// statementWords appear in virtually every statement. Text containing none of
// them is most likely mis-decoded.
var statementWords = []string{
	"account", "balance", "date", "payment", "statement", "total",
	"amount", "credit", "debit", "transaction", "page", "period",
}

// Readable reports whether lines look like decoded statement text: more than
// 50 characters, mostly plain ASCII, containing at least one common
// statement word.
func Readable(lines []string) bool {
	total, readable, length := 0, 0, 0
	for _, line := range lines {
		length += len(strings.TrimSpace(line))
		for _, r := range line {
			total++
			if r < unicode.MaxASCII && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
				readable++
			}
		}
	}
	if length <= 50 || total == 0 || float64(readable)/float64(total) <= 0.6 {
		return false
	}

	combined := strings.ToLower(strings.Join(lines, " "))
	for _, w := range statementWords {
		if strings.Contains(combined, w) {
			return true
		}
	}
	return false
}
