package parser

import (
	"regexp"
	"strings"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/models"
)

var camelBoundary = regexp.MustCompile(`(\w)([A-Z])`)

// BankName turns a type name into the bank label used on records:
// "ChaseChecking" becomes "chase checking".
func BankName(typeName string) string {
	return strings.TrimSpace(strings.ToLower(camelBoundary.ReplaceAllString(typeName, "${1} ${2}")))
}

// base carries what every variant shares: its patterns, name and line
// detection.
type base struct {
	kind        models.BankType
	name        string
	pageEnd     *regexp.Regexp
	transaction *regexp.Regexp
}

func (b *base) Kind() models.BankType              { return b.kind }
func (b *base) Name() string                       { return b.name }
func (b *base) BankName() string                   { return BankName(b.name) }
func (b *base) PageEndPattern() *regexp.Regexp     { return b.pageEnd }
func (b *base) TransactionPattern() *regexp.Regexp { return b.transaction }
func (b *base) variant()                           {}

// IsTransactionLine reports whether the trimmed line matches the
// transaction pattern from its first character.
func (b *base) IsTransactionLine(line string) bool {
	return b.transaction.MatchString(cleanLine(line))
}

// groups applies the transaction pattern and returns its named groups.
func (b *base) groups(line string) (map[string]string, error) {
	line = cleanLine(line)
	m := b.transaction.FindStringSubmatch(line)
	if m == nil {
		return nil, apperrors.UnparsableLine(b.BankName(), line)
	}
	out := make(map[string]string, len(m))
	for i, name := range b.transaction.SubexpNames() {
		if name != "" {
			out[name] = m[i]
		}
	}
	return out, nil
}

func cleanLine(line string) string {
	line = strings.ReplaceAll(line, "\r", "")
	line = strings.ReplaceAll(line, "\n", "")
	return strings.TrimSpace(line)
}

// collapse squeezes runs of whitespace in a description to single spaces.
func collapse(desc string) string {
	return strings.Join(strings.Fields(desc), " ")
}

// pattern compiles a case-insensitive expression anchored at line start.
func pattern(parts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^` + strings.Join(parts, ""))
}

// pageEndPattern compiles a case-insensitive unanchored page marker.
func pageEndPattern(parts ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + strings.Join(parts, ""))
}
