package writer

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/models"
)

var preferred = []string{"bank", "date", "description", "amount", "miles"}

func mixed() []models.Transaction {
	return []models.Transaction{
		{
			Bank:        "revolving credit",
			Date:        "02/03",
			Description: "AMAZON.COM*AB12",
			Amount:      decimal.RequireFromString("23.99"),
		},
		{
			Bank:        "travel rewards credit",
			Date:        "01/05",
			Description: "DELTA AIR LINES",
			Amount:      decimal.RequireFromString("617"),
			Miles:       "1,234",
		},
	}
}

func TestColumns(t *testing.T) {
	rows := []models.Row{
		{{Key: "date", Value: ""}, {Key: "zeta", Value: ""}, {Key: "bank", Value: ""}},
		{{Key: "alpha", Value: ""}, {Key: "amount", Value: ""}, {Key: "date", Value: ""}},
	}

	tests := []struct {
		name      string
		preferred []string
		expected  []string
	}{
		{"discovery order without preference", nil, []string{"date", "zeta", "bank", "alpha", "amount"}},
		{"unknown keys after known", preferred, []string{"bank", "date", "amount", "zeta", "alpha"}},
		{"preference with absent keys", []string{"amount", "missing", "bank"}, []string{"amount", "bank", "date", "zeta", "alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Columns(rows, tt.preferred))
		})
	}
}

func TestColumns_Empty(t *testing.T) {
	assert.Empty(t, Columns(nil, preferred))
}

func TestCSVWriter_MilesLastAndNull(t *testing.T) {
	rows := models.Rows(mixed())
	cols := Columns(rows, preferred)
	require.Equal(t, []string{"bank", "date", "description", "amount", "miles"}, cols)

	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, rows, cols))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "bank,date,description,amount,miles", lines[0])
	assert.Equal(t, "revolving credit,02/03,AMAZON.COM*AB12,23.99,null", lines[1])
	assert.Equal(t, `travel rewards credit,01/05,DELTA AIR LINES,617.00,"1,234"`, lines[2])
}

func TestCSVWriter_CustomNull(t *testing.T) {
	rows := []models.Row{{{Key: "bank", Value: "checking"}}}

	var buf bytes.Buffer
	w := &CSVWriter{Null: "N/A"}
	require.NoError(t, w.Write(&buf, rows, []string{"bank", "balance"}))
	assert.Equal(t, "bank,balance\nchecking,N/A\n", buf.String())
}

func TestCSVWriter_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, nil, []string{"bank", "date"}))
	assert.Equal(t, "bank,date\n", buf.String())
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	w := &CSVWriter{}

	require.NoError(t, w.WriteTransactions(path, mixed(), preferred))
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(first), "\n"))

	// A second run overwrites rather than appends.
	require.NoError(t, w.WriteTransactions(path, mixed()[:1], preferred))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bank,date,description,amount\nrevolving credit,02/03,AMAZON.COM*AB12,23.99\n", string(second))
}

func TestCSVWriter_NoTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, (&CSVWriter{}).WriteTransactions(path, nil, preferred))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bank,date,description,amount,miles\n", string(data))
}

func TestCSVWriter_NoTransactionsNoPreference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, (&CSVWriter{}).WriteTransactions(path, nil, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bank,date,description,amount\n", string(data))
}

func TestReplaceFile_FailureLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	err := replaceFile(path, func(out io.Writer) error {
		if _, err := io.WriteString(out, "bank,date\nchecking,"); err != nil {
			return err
		}
		return errors.New("disk full")
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrWriteFailed))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCSVWriter_WriteToFileFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := (&CSVWriter{}).WriteToFile(filepath.Join(blocker, "out.csv"), nil, []string{"bank"})
	assert.Error(t, err)
}
