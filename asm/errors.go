package asm

import "fmt"

// CLIError reports a malformed invocation: the wrong argument count, or
// a source path that does not end in ".asm".
type CLIError struct {
	msg string
}

func (e *CLIError) Error() string { return e.msg }

func newCLIError(format string, args ...interface{}) error {
	return &CLIError{msg: fmt.Sprintf(format, args...)}
}

// NewCLIError constructs a CLIError, exported so a CLI entrypoint
// outside this package can report argument errors using the same
// taxonomy as the rest of the pipeline.
func NewCLIError(format string, args ...interface{}) error {
	return newCLIError(format, args...)
}

// ValidationError reports a violation surfaced by the Validator, the
// Pseudo Expander, or the Label Resolver: malformed syntax, an operand
// schema mismatch, a mismatched section, or a duplicate label. When Line
// is non-zero, Error embeds the offending source line in the message.
type ValidationError struct {
	Line int
	Text string
	msg  string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.msg, e.Text)
	}
	return e.msg
}

func newValidationError(line fstring, format string, args ...interface{}) error {
	return &ValidationError{
		Line: line.row,
		Text: line.full,
		msg:  fmt.Sprintf(format, args...),
	}
}

func newValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// TokenTypeError reports an internal invariant breach: the Encoder was
// handed an opcode it does not recognize, or the Label Substituter met
// an operand label on an opcode other than MOVLI or MOVUI.
type TokenTypeError struct {
	msg string
}

func (e *TokenTypeError) Error() string { return e.msg }

func newTokenTypeError(format string, args ...interface{}) error {
	return &TokenTypeError{msg: fmt.Sprintf(format, args...)}
}

// LabelError reports a label the Label Substituter could not find in the
// label table.
type LabelError struct {
	Label string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("label not found: %s", e.Label)
}

func newLabelError(name string) error {
	return &LabelError{Label: name}
}
