// Package asm implements the two-pass assembler pipeline: Line Reader,
// Validator, Token Builder, Pseudo Expander, Label Resolver, Label
// Substituter, and Encoder, each consuming the previous stage's output
// in full before producing its own.
package asm

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Result is the product of a complete assembly: the emitted binary
// image and the resolved label table, kept around for callers that
// want to report addresses alongside the output file.
type Result struct {
	Bytes  []byte
	Labels LabelTable
}

// Assemble reads a complete source from r and runs it through every
// pipeline stage in order. Any stage's error halts the pipeline
// immediately and is returned wrapped with the name of the stage that
// raised it; no stage partially commits its output. When log is
// non-nil, each stage writes a one-line trace of what it produced,
// in the same spirit as the teacher's verbose `fmt.Printf` logging
// helpers; a nil log writer emits nothing.
func Assemble(r io.Reader, log io.Writer) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read source")
	}

	lines, err := readLines(string(raw))
	if err != nil {
		return nil, errors.Wrap(err, "line reader")
	}
	logf(log, "line reader: %d lines", len(lines))

	parsed := make([]*parsedLine, 0, len(lines))
	for _, sl := range lines {
		pl, err := validateLine(sl)
		if err != nil {
			return nil, errors.Wrap(err, "validate")
		}
		parsed = append(parsed, pl)
	}
	logf(log, "validate: %d lines accepted", len(parsed))

	records, err := buildRecords(parsed)
	if err != nil {
		return nil, errors.Wrap(err, "token builder")
	}
	logf(log, "token builder: %d records", len(records))

	records, err = expandPseudo(records)
	if err != nil {
		return nil, errors.Wrap(err, "pseudo expander")
	}
	logf(log, "pseudo expander: %d records after expansion", len(records))

	labels, err := resolveLabels(records)
	if err != nil {
		return nil, errors.Wrap(err, "label resolver")
	}
	logf(log, "label resolver: %d labels bound", len(labels))

	if err := substituteLabels(records, labels); err != nil {
		return nil, errors.Wrap(err, "label substituter")
	}
	logf(log, "label substituter: done")

	out, err := Encode(records)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	logf(log, "encode: %d bytes emitted (%s)", len(out), byteString(out))

	return &Result{Bytes: out, Labels: labels}, nil
}

func logf(w io.Writer, format string, args ...interface{}) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}
