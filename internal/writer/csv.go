package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apperrors "github.com/insightdelivered/statement-parser/internal/errors"
	"github.com/insightdelivered/statement-parser/internal/models"
)

// DefaultNull is written for a column a record does not carry.
const DefaultNull = "null"

// CSVWriter writes heterogeneous rows as CSV: one header row, then one line
// per row in the given column order.
type CSVWriter struct {
	// Null replaces missing cells; DefaultNull when empty.
	Null string
}

func (w *CSVWriter) null() string {
	if w.Null == "" {
		return DefaultNull
	}
	return w.Null
}

// WriteToFile replaces the file at path with the CSV rendering of rows,
// creating parent directories as needed. A failed write leaves no file.
func (w *CSVWriter) WriteToFile(path string, rows []models.Row, columns []string) error {
	return replaceFile(path, func(out io.Writer) error {
		return w.Write(out, rows, columns)
	})
}

func replaceFile(path string, render func(io.Writer) error) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apperrors.WriteFailed(path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.WriteFailed(path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.WriteFailed(path, err)
	}
	err = render(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return apperrors.WriteFailed(path, err)
	}
	return nil
}

// Write renders rows in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, rows []models.Row, columns []string) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			v, ok := row.Get(col)
			if !ok {
				v = w.null()
			}
			record[i] = v
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTransactions projects txns onto columns ordered by preferred and
// writes them to path. With no transactions the header is preferred itself,
// or models.BaseColumns when nothing is preferred.
func (w *CSVWriter) WriteTransactions(path string, txns []models.Transaction, preferred []string) error {
	rows := models.Rows(txns)
	cols := Columns(rows, preferred)
	if len(cols) == 0 {
		cols = preferred
	}
	if len(cols) == 0 {
		cols = models.BaseColumns
	}
	return w.WriteToFile(path, rows, cols)
}
