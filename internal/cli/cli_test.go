package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-parser/internal/config"
	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/logger"
)

const checkingText = `CHECKING SUMMARY
03/14 GROCERY STORE #12 45.67 1,204.33
03/15 NETFLIX.COM 15.49 1,188.84
Page 1 of 1
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1.2.3")

	assert.Equal(t, "dev (commit abc, built today)", BuildInfo{Version: "dev", Commit: "abc", Date: "today"}.String())
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "march.txt"), checkingText)

	stdout, _, err := run(t, "parse", "--bank", "checking", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 2 transaction(s) on 1 page(s)")

	data, err := os.ReadFile(filepath.Join(dir, "march.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"bank,date,description,amount,balance\n"+
			"checking,03/14,GROCERY STORE #12,45.67,1204.33\n"+
			"checking,03/15,NETFLIX.COM,15.49,1188.84\n",
		string(data))
}

func TestParseCommand_CombinedOutputWithSearch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.txt"), checkingText)
	b := writeFile(t, filepath.Join(dir, "b.txt"), checkingText)
	output := filepath.Join(dir, "out", "netflix.csv")

	stdout, stderr, err := run(t, "parse", "--search", "netflix", "--columns", "date,amount", "-o", output, "--log-format", "json", "-v", a, b)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 transaction(s)")
	assert.Contains(t, stderr, `"msg":"parsed statement"`)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,amount,bank,description,balance", lines[0])
	assert.Equal(t, "03/15,15.49,checking,NETFLIX.COM,1188.84", lines[1])
}

func TestParseCommand_Errors(t *testing.T) {
	input := writeFile(t, filepath.Join(t.TempDir(), "march.txt"), checkingText)

	_, _, err := run(t, "parse", "--bank", "savings", input)
	require.Error(t, err)
	assert.Equal(t, 4, apperrors.ExitCode(err))

	_, _, err = run(t, "parse", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
	assert.Equal(t, 2, apperrors.ExitCode(err))

	_, _, err = run(t, "parse")
	assert.Error(t, err)
}

func TestItemizeCommand(t *testing.T) {
	root := t.TempDir()
	statements := filepath.Join(root, "statements")
	output := filepath.Join(root, "exports")
	writeFile(t, filepath.Join(statements, "chase", "march.txt"), checkingText)

	settings := writeFile(t, filepath.Join(root, "settings.yaml"), `
statements: `+statements+`
output: `+output+`
sources:
  - bank: checking
    folder: chase
  - bank: revolving
    folder: amazon
searches:
  - name: subscriptions
    wildcards: [netflix, hulu]
`)

	stdout, stderr, err := run(t, "itemize", "--config", settings)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Parsed 2 transaction(s)")
	assert.Contains(t, stdout, "Wrote 2 file(s)")
	assert.Contains(t, stderr, "cannot read statement folder")

	data, err := os.ReadFile(filepath.Join(output, "subscriptions.csv"))
	require.NoError(t, err)
	assert.Equal(t, "bank,date,description,amount,balance\nchecking,03/15,NETFLIX.COM,15.49,1188.84\n", string(data))
	assert.FileExists(t, filepath.Join(output, "all_transactions.csv"))
}

func TestItemizeCommand_BadConfig(t *testing.T) {
	settings := writeFile(t, filepath.Join(t.TempDir(), "settings.yaml"), "sources: [{bank: savings, folder: x}]\n")

	_, _, err := run(t, "itemize", "--config", settings)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidConfig))
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	code := ReportError(&buf, apperrors.SourceUnavailable("jan.pdf", errors.New("boom")))

	assert.Equal(t, 2, code)
	assert.Contains(t, buf.String(), "Error: no text available for jan.pdf: boom")
	assert.Contains(t, buf.String(), "path: jan.pdf")

	assert.Equal(t, 0, ReportError(&buf, nil))
	assert.Equal(t, 1, ReportError(&bytes.Buffer{}, errors.New("plain")))
}

func TestSource_SkipsMissingPdftotext(t *testing.T) {
	cfg := config.Default()
	cfg.Extraction.Pdftotext = filepath.Join(t.TempDir(), "no-such-pdftotext")
	a := &app{cfg: cfg, log: logger.Nop()}

	src, ok := a.source().(extractor.ByExtension)
	require.True(t, ok)
	chain, ok := src.PDF.(extractor.Fallback)
	require.True(t, ok)
	require.Len(t, chain, 1)
	assert.IsType(t, &extractor.Library{}, chain[0])

	cfg.Extraction.KeepText = true
	assert.IsType(t, extractor.KeepText{}, a.source())
}
