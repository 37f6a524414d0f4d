package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"invalid date", InvalidDate("Foo 12", "unknown month"), ErrInvalidDate, true},
		{"malformed number", MalformedNumber("abc", nil), ErrMalformedNumber, true},
		{"unparsable line", UnparsableLine("checking", "x"), ErrUnparsableLine, true},
		{"source unavailable", SourceUnavailable("/tmp/a.pdf", stderrors.New("boom")), ErrSourceUnavailable, true},
		{"wrapped by fmt", fmt.Errorf("page 2: %w", InvalidDate("x", "bad")), ErrInvalidDate, true},
		{"different code", InvalidDate("x", "bad"), ErrMalformedNumber, false},
		{"foreign error", stderrors.New("plain"), ErrInvalidDate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestStatementError_ExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{stderrors.New("plain"), 1},
		{SourceUnavailable("a.pdf", nil), 2},
		{MalformedNumber("x", nil), 3},
		{InvalidConfig("columns", nil), 4},
		{WriteFailed("out.csv", stderrors.New("disk full")), 5},
		{UnparsableLine("checking", "x"), 6},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.err), func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestStatementError_MessageAndContext(t *testing.T) {
	cause := stderrors.New("no such file")
	err := SourceUnavailable("/data/jan.pdf", cause).WithSuggestion("check the path")

	assert.Equal(t, "no text available for /data/jan.pdf: no such file (suggestion: check the path)", err.Error())
	assert.Equal(t, "/data/jan.pdf", err.Context["path"])
	assert.Same(t, cause, err.Unwrap())
	assert.NotEmpty(t, err.StackTrace)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CategoryParse, CodeInvalidDate, "x"))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", MalformedNumber("1.2.3", nil))
	se, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeMalformedNumber, se.Code)

	_, ok = As(stderrors.New("plain"))
	assert.False(t, ok)
}
