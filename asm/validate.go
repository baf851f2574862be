package asm

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/dthorpe/iridium/isa"
	"github.com/x448/float16"
)

// operandKind discriminates the three forms a validated operand can
// take once the Validator has classified it.
type operandKind byte

const (
	operandRegister operandKind = iota
	operandImmediate
	operandLabel
)

type operand struct {
	kind  operandKind
	reg   isa.Register
	imm   uint32
	label string // label name without the leading '@'
}

// parsedLine is the Validator's output: a line whose syntax has already
// been confirmed legal, with its operands (or data/text payload)
// already classified and converted, ready for the Token Builder to
// thread through the pending-label carry and assemble into a Record.
type parsedLine struct {
	source      fstring
	mode        section
	label       string
	isLabelOnly bool

	// code lines
	opcode   string
	operands []operand

	// data/text lines
	category DataCategory
	words    []uint16
}

// validateLine rejects a malformed line before any token is built, and
// otherwise returns the structured result of parsing it.
func validateLine(sl sourceLine) (*parsedLine, error) {
	label, rest, hasLabel := splitLabelPrefix(sl.text)
	if hasLabel && rest.isEmpty() {
		return &parsedLine{source: sl.text, mode: sl.mode, label: label, isLabelOnly: true}, nil
	}

	line := sl.text
	if hasLabel {
		line = rest
	}

	mnemTok, remain := line.consumeUntil(whitespace)
	mnemonic := mnemTok.String()
	remain = remain.consumeWhitespace()

	switch sl.mode {
	case sectionCode:
		return validateCodeLine(label, mnemonic, remain, sl.text)
	case sectionData:
		return validateDataLine(label, mnemonic, remain, sl.text)
	case sectionText:
		return validateTextLine(label, mnemonic, remain, sl.text)
	default:
		return nil, newValidationError(sl.text, "unknown section mode")
	}
}

// splitLabelPrefix recognizes a leading `<name>:` on line and returns
// the label name and the remainder of the line with the prefix and any
// following whitespace consumed.
func splitLabelPrefix(line fstring) (label string, rest fstring, hasLabel bool) {
	s := line.str
	if len(s) == 0 || !labelStartChar(s[0]) {
		return "", line, false
	}
	j := 1
	for j < len(s) && labelChar(s[j]) {
		j++
	}
	if j >= len(s) || s[j] != ':' {
		return "", line, false
	}
	name := s[:j]
	remainder := line.consume(j + 1).consumeWhitespace()
	return name, remainder, true
}

func validateCodeLine(label, mnemonic string, rest fstring, src fstring) (*parsedLine, error) {
	if isa.IsDataDirective(mnemonic) || isa.IsTextDirective(mnemonic) {
		return nil, newValidationError(src, "data directive %q in code section", mnemonic)
	}
	op, ok := isa.Lookup(mnemonic)
	if !ok {
		return nil, newValidationError(src, "unknown opcode %q", mnemonic)
	}
	raw := splitOperands(rest.String())
	operands, err := classifyOperands(mnemonic, op.Shape, raw)
	if err != nil {
		return nil, attachLine(err, src)
	}
	return &parsedLine{source: src, mode: sectionCode, label: label, opcode: mnemonic, operands: operands}, nil
}

func validateDataLine(label, mnemonic string, rest fstring, src fstring) (*parsedLine, error) {
	if _, ok := isa.Lookup(mnemonic); ok {
		return nil, newValidationError(src, "instruction %q in data section", mnemonic)
	}
	if isa.IsTextDirective(mnemonic) {
		return nil, newValidationError(src, ".text directive not permitted in data section")
	}
	if !isa.IsDataDirective(mnemonic) {
		return nil, newValidationError(src, "unknown data directive %q", mnemonic)
	}

	payload := rest.String()
	pl := &parsedLine{source: src, mode: sectionData, label: label, opcode: mnemonic}

	var err error
	switch mnemonic {
	case ".int":
		var v uint32
		if v, err = parseImmediate(payload, 16, true); err == nil {
			pl.category = CategoryInt
			pl.words = []uint16{uint16(v)}
		}
	case ".long":
		var v uint32
		if v, err = parseImmediate(payload, 32, true); err == nil {
			pl.category = CategoryLong
			pl.words = []uint16{uint16(v >> 16), uint16(v)}
		}
	case ".half":
		var h uint16
		if h, err = parseHalf(payload); err == nil {
			pl.category = CategoryHalf
			pl.words = []uint16{h}
		}
	case ".float":
		var f float32
		if f, err = parseFloat32(payload); err == nil {
			bits := math.Float32bits(f)
			pl.category = CategoryFloat
			pl.words = []uint16{uint16(bits >> 16), uint16(bits)}
		}
	case ".char":
		var r rune
		if r, err = parseChar(payload); err == nil {
			pl.category = CategoryChar
			pl.words = []uint16{encodeUTF16CodeUnit(r)}
		}
	case ".section":
		var size int
		var items []uint16
		if size, items, err = parseSectionPayload(payload); err == nil {
			pl.category = CategorySection
			words := make([]uint16, size)
			copy(words, items)
			pl.words = words
		}
	}
	if err != nil {
		return nil, attachLine(err, src)
	}
	return pl, nil
}

func validateTextLine(label, mnemonic string, rest fstring, src fstring) (*parsedLine, error) {
	if !isa.IsTextDirective(mnemonic) {
		return nil, newValidationError(src, "only .text is permitted in text section, got %q", mnemonic)
	}
	size, content, err := parseTextPayload(rest.String())
	if err != nil {
		return nil, attachLine(err, src)
	}
	units := utf16.Encode([]rune(content))
	words := make([]uint16, size)
	copy(words, units)
	return &parsedLine{source: src, mode: sectionText, label: label, opcode: mnemonic, words: words}, nil
}

// attachLine embeds src's position into err if err is a *ValidationError
// that does not already carry one.
func attachLine(err error, src fstring) error {
	if err == nil {
		return nil
	}
	if ve, ok := err.(*ValidationError); ok && ve.Line == 0 {
		ve.Line = src.row
		ve.Text = src.full
		return ve
	}
	return err
}

func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// classifyOperands enforces the operand schema table for opcodeName's
// shape against the raw, comma-split operand tokens.
func classifyOperands(opcodeName string, shape isa.Shape, raw []string) ([]operand, error) {
	switch shape {
	case isa.ShapeNone:
		if len(raw) != 0 {
			return nil, newValidationErrorf("%s takes no operands", opcodeName)
		}
		return nil, nil

	case isa.ShapeRRR:
		if len(raw) != 3 {
			return nil, newValidationErrorf("%s requires 3 register operands", opcodeName)
		}
		return classifyRegisters(opcodeName, raw)

	case isa.ShapeRRRLabel:
		if len(raw) != 3 && len(raw) != 4 {
			return nil, newValidationErrorf("%s requires 3 registers with an optional @label", opcodeName)
		}
		ops, err := classifyRegisters(opcodeName, raw[:3])
		if err != nil {
			return nil, err
		}
		if len(raw) == 4 {
			lbl, err := classifyLabelOperand(raw[3])
			if err != nil {
				return nil, err
			}
			ops = append(ops, lbl)
		}
		return ops, nil

	case isa.ShapeRRI4:
		if len(raw) != 3 {
			return nil, newValidationErrorf("%s requires 2 registers and a 4-bit immediate", opcodeName)
		}
		ops, err := classifyRegisters(opcodeName, raw[:2])
		if err != nil {
			return nil, err
		}
		imm, err := parseImmediate(raw[2], 4, false)
		if err != nil {
			return nil, err
		}
		return append(ops, operand{kind: operandImmediate, imm: imm}), nil

	case isa.ShapeRR:
		if len(raw) != 2 {
			return nil, newValidationErrorf("%s requires 2 register operands", opcodeName)
		}
		return classifyRegisters(opcodeName, raw)

	case isa.ShapeBranch:
		switch len(raw) {
		case 1:
			reg, ok := isa.LookupRegister(raw[0])
			if !ok {
				return nil, newValidationErrorf("%s: %q is not a valid register", opcodeName, raw[0])
			}
			if !isa.IsBranchSingleRegister(reg) {
				return nil, newValidationErrorf("%s: single-register form requires $sp/$fp/$ra/$pc, got %s", opcodeName, raw[0])
			}
			return []operand{{kind: operandRegister, reg: reg}}, nil
		case 2:
			return classifyRegisters(opcodeName, raw)
		case 3:
			ops, err := classifyRegisters(opcodeName, raw[:2])
			if err != nil {
				return nil, err
			}
			lbl, err := classifyLabelOperand(raw[2])
			if err != nil {
				return nil, err
			}
			return append(ops, lbl), nil
		default:
			return nil, newValidationErrorf("%s takes 1, 2, or 3 operands", opcodeName)
		}

	case isa.ShapeRI8Label:
		if len(raw) != 2 {
			return nil, newValidationErrorf("%s requires a register and an immediate or @label", opcodeName)
		}
		regOps, err := classifyRegisters(opcodeName, raw[:1])
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(raw[1], "@") {
			lbl, err := classifyLabelOperand(raw[1])
			if err != nil {
				return nil, err
			}
			return append(regOps, lbl), nil
		}
		imm, err := parseImmediate(raw[1], 8, false)
		if err != nil {
			return nil, err
		}
		return append(regOps, operand{kind: operandImmediate, imm: imm}), nil

	case isa.ShapeI8:
		if len(raw) != 1 {
			return nil, newValidationErrorf("%s requires an 8-bit immediate", opcodeName)
		}
		imm, err := parseImmediate(raw[0], 8, false)
		if err != nil {
			return nil, err
		}
		return []operand{{kind: operandImmediate, imm: imm}}, nil
	}

	return nil, newValidationErrorf("%s: unhandled operand shape", opcodeName)
}

func classifyRegisters(opcodeName string, raw []string) ([]operand, error) {
	ops := make([]operand, 0, len(raw))
	for _, tok := range raw {
		reg, ok := isa.LookupRegister(tok)
		if !ok {
			return nil, newValidationErrorf("%s: %q is not a valid register", opcodeName, tok)
		}
		ops = append(ops, operand{kind: operandRegister, reg: reg})
	}
	return ops, nil
}

func classifyLabelOperand(tok string) (operand, error) {
	if !strings.HasPrefix(tok, "@") {
		return operand{}, newValidationErrorf("%q is not a valid operand label", tok)
	}
	name := tok[1:]
	if !isValidLabelName(name) {
		return operand{}, newValidationErrorf("%q is not a valid label name", name)
	}
	return operand{kind: operandLabel, label: name}, nil
}

func isValidLabelName(name string) bool {
	if name == "" || !labelStartChar(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !labelChar(name[i]) {
			return false
		}
	}
	return true
}

// parseImmediate parses an operand or directive payload as an integer
// literal of the given bit width. Base is selected by prefix: 0x is
// hexadecimal, 0b is binary, anything else is decimal. A leading '-' is
// permitted only on a decimal literal and only when signed is true;
// hex and binary literals are always treated as unsigned.
func parseImmediate(tok string, bits uint, signed bool) (uint32, error) {
	negative := signed && strings.HasPrefix(tok, "-")

	var mag uint64
	var err error
	switch {
	case strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X"):
		mag, err = strconv.ParseUint(tok[2:], 16, 64)
	case strings.HasPrefix(tok, "0b") || strings.HasPrefix(tok, "0B"):
		mag, err = strconv.ParseUint(tok[2:], 2, 64)
	case negative:
		mag, err = strconv.ParseUint(tok[1:], 10, 64)
	default:
		mag, err = strconv.ParseUint(tok, 10, 64)
	}
	if err != nil {
		return 0, newValidationErrorf("invalid immediate %q", tok)
	}

	if negative {
		limit := uint64(1) << (bits - 1)
		if mag > limit {
			return 0, newValidationErrorf("immediate %q out of range for a %d-bit signed field", tok, bits)
		}
		mask := uint32((uint64(1) << bits) - 1)
		return uint32(-int64(mag)) & mask, nil
	}

	limit := uint64(1) << bits
	if mag >= limit {
		return 0, newValidationErrorf("immediate %q out of range for a %d-bit field", tok, bits)
	}
	return uint32(mag), nil
}

func parseFloat32(tok string) (float32, error) {
	f, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, newValidationErrorf("invalid float literal %q", tok)
	}
	return float32(f), nil
}

func parseHalf(tok string) (uint16, error) {
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, newValidationErrorf("invalid half-precision literal %q", tok)
	}
	h := float16.Fromfloat32(float32(f))
	if h.IsInf(0) && !math.IsInf(f, 0) {
		return 0, newValidationErrorf("half-precision literal %q out of range", tok)
	}
	return uint16(h), nil
}

func parseChar(tok string) (rune, error) {
	if len(tok) < 3 || tok[0] != '\'' || tok[len(tok)-1] != '\'' {
		return 0, newValidationErrorf("invalid char literal %q", tok)
	}
	body := tok[1 : len(tok)-1]
	switch body {
	case `\t`:
		return '\t', nil
	case `\n`:
		return '\n', nil
	case `\r`:
		return '\r', nil
	case `\0`:
		return 0, nil
	default:
		runes := []rune(body)
		if len(runes) != 1 {
			return 0, newValidationErrorf("char literal %q must be exactly one character", tok)
		}
		return runes[0], nil
	}
}

func encodeUTF16CodeUnit(r rune) uint16 {
	units := utf16.Encode([]rune{r})
	if len(units) == 0 {
		return 0
	}
	return units[0]
}

func parseTextPayload(payload string) (int, string, error) {
	trimmed := strings.TrimSpace(payload)
	idx := strings.IndexAny(trimmed, " \t")
	if idx < 0 {
		return 0, "", newValidationErrorf("malformed .text payload %q", payload)
	}
	sizeStr := trimmed[:idx]
	rest := strings.TrimSpace(trimmed[idx:])

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return 0, "", newValidationErrorf("invalid .text size %q", sizeStr)
	}
	if len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return 0, "", newValidationErrorf("malformed .text string %q", rest)
	}
	content := rest[1 : len(rest)-1]
	if utf8.RuneCountInString(content) > size {
		return 0, "", newValidationErrorf(".text string %q exceeds declared size %d", content, size)
	}
	return size, content, nil
}

func parseSectionPayload(payload string) (int, []uint16, error) {
	trimmed := strings.TrimSpace(payload)
	sizeStr := trimmed
	rest := ""
	if idx := strings.IndexAny(trimmed, " \t"); idx >= 0 {
		sizeStr = trimmed[:idx]
		rest = strings.TrimSpace(trimmed[idx:])
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 0 {
		return 0, nil, newValidationErrorf("invalid .section size %q", sizeStr)
	}

	if len(rest) < 2 || rest[0] != '[' || rest[len(rest)-1] != ']' {
		return 0, nil, newValidationErrorf("malformed .section item list %q, want [items]", rest)
	}
	inner := strings.TrimSpace(rest[1 : len(rest)-1])

	var words []uint16
	if inner != "" {
		for _, item := range strings.Split(inner, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			v, err := parseImmediate(item, 16, true)
			if err != nil {
				return 0, nil, err
			}
			words = append(words, uint16(v))
		}
	}
	if len(words) > size {
		return 0, nil, newValidationErrorf(".section item count %d exceeds declared size %d", len(words), size)
	}
	return size, words, nil
}
