// Package search filters transactions by description.
package search

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// Matcher is a compiled set of wildcards.
type Matcher struct {
	wildcards []string
	re        *regexp.Regexp
}

// Compile joins the wildcards into one case-insensitive alternation. Each
// wildcard is a regular expression fragment, so "apple.com" also matches
// "applexcom".
func Compile(wildcards ...string) (*Matcher, error) {
	if len(wildcards) == 0 {
		return nil, apperrors.InvalidConfig("search", errors.New("no wildcards given"))
	}
	expr := `(?i)(?:` + strings.Join(wildcards, "|") + `)`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, apperrors.InvalidConfig("search", errors.Wrapf(err, "wildcards %q", wildcards))
	}
	return &Matcher{wildcards: wildcards, re: re}, nil
}

// Wildcards returns the patterns the matcher was compiled from.
func (m *Matcher) Wildcards() []string {
	return append([]string(nil), m.wildcards...)
}

// Match reports whether the description contains a match for any wildcard.
func (m *Matcher) Match(description string) bool {
	return m.re.MatchString(description)
}

// Filter keeps the transactions whose description matches, in input order.
// It never returns nil.
func (m *Matcher) Filter(txns []models.Transaction) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range txns {
		if m.Match(t.Description) {
			out = append(out, t)
		}
	}
	return out
}

// Search compiles wildcards and filters txns in one step.
func Search(wildcards []string, txns []models.Transaction) ([]models.Transaction, error) {
	m, err := Compile(wildcards...)
	if err != nil {
		return nil, err
	}
	return m.Filter(txns), nil
}
