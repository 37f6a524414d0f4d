package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
)

const sampleText = `CHECKING SUMMARY
Beginning Balance 1,250.00
03/14 GROCERY STORE #12 45.67 1,204.33
Page 1 of 1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTextFile(t *testing.T) {
	path := writeFile(t, "march.txt", sampleText)

	lines, err := TextFile{}.Lines(context.Background(), Request{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CHECKING SUMMARY",
		"Beginning Balance 1,250.00",
		"03/14 GROCERY STORE #12 45.67 1,204.33",
		"Page 1 of 1",
	}, lines)
}

func TestRequestValidation(t *testing.T) {
	path := writeFile(t, "march.txt", sampleText)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty path", Request{}},
		{"missing file", Request{Path: filepath.Join(t.TempDir(), "nope.txt")}},
		{"directory", Request{Path: t.TempDir()}},
		{"start after end", Request{Path: path, FirstPage: 3, LastPage: 2}},
		{"negative page", Request{Path: path, FirstPage: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TextFile{}.Lines(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
		})
	}
}

func TestNotAPDF(t *testing.T) {
	path := writeFile(t, "fake.pdf", "just text")

	for name, src := range map[string]Source{
		"library":   &Library{},
		"pdftotext": &Pdftotext{Binary: "/bin/true"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := src.Lines(context.Background(), Request{Path: path})
			assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
		})
	}
}

func TestPdftotext_MissingBinary(t *testing.T) {
	path := writeFile(t, "doc.pdf", "%PDF-1.4\n")
	p := &Pdftotext{Binary: filepath.Join(t.TempDir(), "no-such-pdftotext")}

	assert.False(t, p.Available())
	_, err := p.Lines(context.Background(), Request{Path: path, FirstPage: 1, LastPage: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
}

func TestPdftotext_Args(t *testing.T) {
	p := &Pdftotext{}
	assert.Equal(t,
		[]string{"-f", "1", "-l", "4", "-layout", "-enc", "UTF-8", "-nopgbrk", "a.pdf", "-"},
		p.Args(Request{Path: "a.pdf"}, 4))

	assert.Equal(t,
		[]string{"-f", "2", "-l", "3", "-layout", "-enc", "UTF-8", "-nopgbrk", "a.pdf", "-"},
		p.Args(Request{Path: "a.pdf", FirstPage: 2}, 3))
}

func TestPdftotext_RunsTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	dir := t.TempDir()
	tool := filepath.Join(dir, "pdftotext")
	script := "#!/bin/sh\necho \"args: $*\"\necho \"Page 1 of 1\"\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))
	path := writeFile(t, "doc.pdf", "%PDF-1.4\n")

	p := &Pdftotext{Binary: tool}
	lines, err := p.Lines(context.Background(), Request{Path: path, FirstPage: 2, LastPage: 5})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "args: -f 2 -l 5 -layout -enc UTF-8 -nopgbrk "))
	assert.Equal(t, "Page 1 of 1", lines[1])
}

type stubSource struct {
	lines []string
	err   error
	calls int
}

func (s *stubSource) Lines(context.Context, Request) ([]string, error) {
	s.calls++
	return s.lines, s.err
}

func TestFallback(t *testing.T) {
	good := strings.Split(strings.TrimSpace(sampleText), "\n")
	failing := &stubSource{err: errors.New("boom")}
	garbage := &stubSource{lines: []string{"\x00\x01\x02"}}
	ok := &stubSource{lines: good}
	unused := &stubSource{lines: good}

	lines, err := Fallback{failing, garbage, ok, unused}.Lines(context.Background(), Request{Path: "x.pdf"})
	require.NoError(t, err)
	assert.Equal(t, good, lines)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, garbage.calls)
	assert.Equal(t, 0, unused.calls)
}

func TestFallback_AllFail(t *testing.T) {
	_, err := Fallback{&stubSource{err: errors.New("first")}, &stubSource{err: errors.New("second")}}.
		Lines(context.Background(), Request{Path: "x.pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "first; second")

	_, err = Fallback{}.Lines(context.Background(), Request{Path: "x.pdf"})
	assert.Error(t, err)
}

func TestReadable(t *testing.T) {
	assert.True(t, Readable(strings.Split(sampleText, "\n")))
	assert.False(t, Readable([]string{"short balance"}))
	assert.False(t, Readable([]string{strings.Repeat("xyz qrs ", 20)}))
	assert.False(t, Readable(nil))
}

func TestByExtensionAndKeepText(t *testing.T) {
	pdfPath := writeFile(t, "jan.pdf", "%PDF-1.4\n")
	extracted := []string{"01/02 COFFEE 4.50 100.00", "Page 1 of 1"}
	pdfSource := &stubSource{lines: extracted}

	src := KeepText{Source: ByExtension{PDF: pdfSource}}
	lines, err := src.Lines(context.Background(), Request{Path: pdfPath})
	require.NoError(t, err)
	assert.Equal(t, extracted, lines)

	dump := TextPath(pdfPath)
	assert.Equal(t, strings.TrimSuffix(pdfPath, ".pdf")+".txt", dump)
	data, err := os.ReadFile(dump)
	require.NoError(t, err)
	assert.Equal(t, "01/02 COFFEE 4.50 100.00\nPage 1 of 1\n", string(data))

	// The saved dump is read back through the text route without touching the PDF source.
	again, err := src.Lines(context.Background(), Request{Path: dump})
	require.NoError(t, err)
	assert.Equal(t, extracted, again)
	assert.Equal(t, 1, pdfSource.calls)
}
