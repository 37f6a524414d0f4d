package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Category groups error codes by the layer that raised them.
type Category string

const (
	CategorySource        Category = "source"
	CategoryParse         Category = "parse"
	CategoryConfiguration Category = "configuration"
	CategoryOutput        Category = "output"
	CategoryInternal      Category = "internal"
)

// Code identifies a specific failure within a category.
type Code string

const (
	CodeInvalidDate       Code = "invalid_date"
	CodeMalformedNumber   Code = "malformed_number"
	CodeUnparsableLine    Code = "unparsable_line"
	CodeSourceUnavailable Code = "source_unavailable"
	CodeInvalidConfig     Code = "invalid_config"
	CodeWriteFailed       Code = "write_failed"
	CodeUnknownLayout     Code = "unknown_layout"
)

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrInvalidDate       = &StatementError{Category: CategoryParse, Code: CodeInvalidDate}
	ErrMalformedNumber   = &StatementError{Category: CategoryParse, Code: CodeMalformedNumber}
	ErrUnparsableLine    = &StatementError{Category: CategoryInternal, Code: CodeUnparsableLine}
	ErrSourceUnavailable = &StatementError{Category: CategorySource, Code: CodeSourceUnavailable}
	ErrInvalidConfig     = &StatementError{Category: CategoryConfiguration, Code: CodeInvalidConfig}
	ErrWriteFailed       = &StatementError{Category: CategoryOutput, Code: CodeWriteFailed}
	ErrUnknownLayout     = &StatementError{Category: CategoryParse, Code: CodeUnknownLayout}
)

// Context carries structured details about an error.
type Context map[string]interface{}

// StatementError is the error type returned by every package of the parser.
type StatementError struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

func (e *StatementError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", msg, e.Suggestion)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StatementError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StatementError with the same code.
func (e *StatementError) Is(target error) bool {
	t, ok := target.(*StatementError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ExitCode maps the error category to a process exit code.
func (e *StatementError) ExitCode() int {
	switch e.Category {
	case CategorySource:
		return 2
	case CategoryParse:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryOutput:
		return 5
	case CategoryInternal:
		return 6
	default:
		return 1
	}
}

// WithContext adds a key/value pair to the error context.
func (e *StatementError) WithContext(key string, value interface{}) *StatementError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion sets a hint for fixing the error.
func (e *StatementError) WithSuggestion(suggestion string) *StatementError {
	e.Suggestion = suggestion
	return e
}

// New creates a StatementError with a captured stack.
func New(category Category, code Code, message string) *StatementError {
	return &StatementError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap attaches category and code to an existing error. A nil err yields nil.
func Wrap(err error, category Category, code Code, message string) *StatementError {
	if err == nil {
		return nil
	}
	return &StatementError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// InvalidDate reports a date token that does not fit the month/day grammar.
func InvalidDate(value, reason string) *StatementError {
	return New(CategoryParse, CodeInvalidDate, fmt.Sprintf("invalid date %q: %s", value, reason)).
		WithContext("value", value).
		WithSuggestion(`expected "MM/DD", "<Month> <Day>" or "<Month> <Day> <Year>"`)
}

// MalformedNumber reports a numeric token that is not numeric after cleanup.
func MalformedNumber(value string, cause error) *StatementError {
	msg := fmt.Sprintf("malformed number %q", value)
	var e *StatementError
	if cause != nil {
		e = Wrap(cause, CategoryParse, CodeMalformedNumber, msg)
	} else {
		e = New(CategoryParse, CodeMalformedNumber, msg)
	}
	return e.WithContext("value", value)
}

// UnparsableLine reports a line that passed detection but failed extraction.
func UnparsableLine(bank, line string) *StatementError {
	return New(CategoryInternal, CodeUnparsableLine, fmt.Sprintf("%s: transaction line did not match its pattern", bank)).
		WithContext("bank", bank).
		WithContext("line", line).
		WithSuggestion("this is a bug in the transaction and detection patterns")
}

// UnknownLayout reports a document whose statement layout could not be
// recognized.
func UnknownLayout(source string) *StatementError {
	return New(CategoryParse, CodeUnknownLayout, fmt.Sprintf("could not detect the statement layout of %s", source)).
		WithContext("source", source).
		WithSuggestion("name the layout explicitly: checking, revolving or travel")
}

// SourceUnavailable reports a document whose text could not be produced.
func SourceUnavailable(path string, cause error) *StatementError {
	msg := fmt.Sprintf("no text available for %s", path)
	var e *StatementError
	if cause != nil {
		e = Wrap(cause, CategorySource, CodeSourceUnavailable, msg)
	} else {
		e = New(CategorySource, CodeSourceUnavailable, msg)
	}
	return e.WithContext("path", path)
}

// InvalidConfig reports a bad setting.
func InvalidConfig(setting string, cause error) *StatementError {
	msg := fmt.Sprintf("invalid configuration for %q", setting)
	var e *StatementError
	if cause != nil {
		e = Wrap(cause, CategoryConfiguration, CodeInvalidConfig, msg)
	} else {
		e = New(CategoryConfiguration, CodeInvalidConfig, msg)
	}
	return e.WithContext("setting", setting)
}

// WriteFailed reports an output file that could not be written.
func WriteFailed(path string, cause error) *StatementError {
	msg := fmt.Sprintf("failed to write %s", path)
	var e *StatementError
	if cause != nil {
		e = Wrap(cause, CategoryOutput, CodeWriteFailed, msg)
	} else {
		e = New(CategoryOutput, CodeWriteFailed, msg)
	}
	return e.WithContext("path", path)
}

// As extracts a StatementError from an error chain.
func As(err error) (*StatementError, bool) {
	var se *StatementError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ExitCode returns the exit code for any error; 0 for nil, 1 for foreign errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if se, ok := As(err); ok {
		return se.ExitCode()
	}
	return 1
}
