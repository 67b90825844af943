package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Reasons a day's report can be blocked from posting. Every failure returned by the
// gate or by Post wraps exactly one of these.
var (
	ErrEntryAlreadyExists   = errors.New("entry already exists")
	ErrContinuityViolation  = errors.New("continuity violation")
	ErrContinuityUnresolved = errors.New("continuity unresolved")
	ErrVarianceDetected     = errors.New("variance detected")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidNumericInput  = errors.New("invalid numeric input")
	ErrStorageFailure       = errors.New("storage failure")
)

// ErrCheckFailed marks a duplicate check that could not run. It is never read as "no duplicate".
var ErrCheckFailed = errors.New("duplicate check failed")

// Field edit rejections.
var (
	ErrNoDateSelected = errors.New("no report date selected")
	ErrNotEditable    = errors.New("field is not editable")
	ErrUnknownField   = errors.New("unknown field")
	ErrNotPosted      = errors.New("report has not been posted")
)

// BlockError is a named reason that stops a report from posting.
type BlockError struct {
	Kind    error
	Field   string
	Message string
	Cause   error
}

func (e *BlockError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *BlockError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func block(kind error, field, format string, args ...any) *BlockError {
	return &BlockError{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

// FormatMoney renders d with two decimals and thousands separators, e.g. 10,523.40.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

var kindCodes = []struct {
	kind error
	code string
}{
	{ErrEntryAlreadyExists, "entry_already_exists"},
	{ErrContinuityViolation, "continuity_violation"},
	{ErrContinuityUnresolved, "continuity_unresolved"},
	{ErrVarianceDetected, "variance_detected"},
	{ErrMissingRequiredField, "missing_required_field"},
	{ErrInvalidNumericInput, "invalid_numeric_input"},
	{ErrStorageFailure, "storage_failure"},
	{ErrBalanceMismatch, "balance_mismatch"},
	{ErrNoDateSelected, "no_date_selected"},
	{ErrNotEditable, "not_editable"},
	{ErrUnknownField, "unknown_field"},
	{ErrNotPosted, "not_posted"},
}

// Code returns a stable snake_case name for the first known kind err wraps,
// or "internal" when it wraps none.
func Code(err error) string {
	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return kc.code
		}
	}
	return "internal"
}
