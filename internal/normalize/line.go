// Package normalize cleans extracted statement text and converts the numeric
// and date tokens found on transaction lines.
package normalize

import "strings"

// ligatures maps typographic characters produced by text extraction to the
// ASCII text the transaction patterns expect.
var ligatures = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "ft",
	"ﬆ", "st",
	"Ꜳ", "AA",
	"Æ", "AE",
	"ꜳ", "aa",
	"â", "a",
	"€", "E",
	"¢", "c",
	"•", "*",
	"™", "TM",
	"®", "(R)",
)

// Line replaces ligatures, drops the line terminator and left-trims
// leading whitespace.
func Line(raw string) string {
	s := ligatures.Replace(raw)
	s = strings.TrimRight(s, "\r\n")
	return strings.TrimLeft(s, " \t\f\v\r\n")
}

// Lines normalizes every line and removes the ones left empty. Page and
// transaction detection rely on no blank lines remaining.
func Lines(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s := Line(r); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitLines splits a text blob on line terminators, keeping CRLF files
// intact for Line to clean up.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}
