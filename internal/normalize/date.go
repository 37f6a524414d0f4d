package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

var months = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// monthPrefix matches abbreviated or spelled out month names by their first
// three letters.
var monthPrefix = regexp.MustCompile(`(?i)^(` + strings.Join(months, "|") + `)`)

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)

// MonthDayDate converts "Jan 5", "January 05" or "december 31 2023" to
// "MM/DD". The year is discarded.
func MonthDayDate(text string) (string, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 2 && len(tokens) != 3 {
		return "", apperrors.InvalidDate(text, fmt.Sprintf("expected 2 or 3 tokens, got %d", len(tokens)))
	}

	m := monthPrefix.FindString(tokens[0])
	if m == "" {
		return "", apperrors.InvalidDate(text, fmt.Sprintf("unknown month %q", tokens[0]))
	}
	month := 0
	for i, name := range months {
		if strings.EqualFold(name, m) {
			month = i + 1
			break
		}
	}

	day, err := strconv.Atoi(tokens[1])
	if err != nil || day < 1 || day > 31 {
		return "", apperrors.InvalidDate(text, fmt.Sprintf("invalid day %q", tokens[1]))
	}

	return fmt.Sprintf("%02d/%02d", month, day), nil
}

// SlashDate zero-pads an "M/D" date to "MM/DD".
func SlashDate(text string) (string, error) {
	m := slashDate.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", apperrors.InvalidDate(text, "expected MM/DD")
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", apperrors.InvalidDate(text, "month or day out of range")
	}
	return fmt.Sprintf("%02d/%02d", month, day), nil
}
