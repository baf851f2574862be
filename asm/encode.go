package asm

import "github.com/dthorpe/iridium/isa"

// Encode emits the little-endian byte stream for a fully-resolved
// record stream: every code record's word(s) in source order; then,
// if any Data records exist, the data section marker followed by
// their words; then, if any Text records exist, the text section
// marker followed by their words. The Encoder never fails given a
// stream that has passed through Label Substitution.
func Encode(records []*Record) ([]byte, error) {
	var code, data, text []*Record
	for _, rec := range records {
		switch rec.Kind {
		case KindInstruction:
			code = append(code, rec)
		case KindData:
			data = append(data, rec)
		case KindText:
			text = append(text, rec)
		}
	}

	var out []byte
	for _, rec := range code {
		words, err := encodeInstruction(rec)
		if err != nil {
			return nil, err
		}
		out = appendWords(out, words)
	}
	if len(data) > 0 {
		out = append(out, sectionMarker("data")...)
		for _, rec := range data {
			out = appendWords(out, rec.Words)
		}
	}
	if len(text) > 0 {
		out = append(out, sectionMarker("text")...)
		for _, rec := range text {
			out = appendWords(out, rec.Words)
		}
	}
	return out, nil
}

func appendWords(out []byte, words []uint16) []byte {
	for _, w := range words {
		out = append(out, toBytes(2, uint32(w))...)
	}
	return out
}

// sectionMarker returns the 5-byte in-stream marker for a region: the
// 4 ASCII bytes of the region's name followed by a single NUL byte.
func sectionMarker(name string) []byte {
	return append([]byte(name), 0)
}

// encodeInstruction encodes a single Instruction record into its word
// layout, dispatching on the opcode's operand shape.
func encodeInstruction(rec *Record) ([]uint16, error) {
	op, ok := isa.Lookup(rec.Opcode)
	if !ok {
		return nil, newTokenTypeError("encode: unknown opcode %q", rec.Opcode)
	}

	switch op.Shape {
	case isa.ShapeNone:
		return []uint16{op.Base}, nil

	case isa.ShapeRRR, isa.ShapeRRRLabel:
		w := op.Base | uint16(rec.OpA)<<8 | uint16(rec.OpB)<<4 | uint16(rec.OpC)
		return []uint16{w}, nil

	case isa.ShapeRRI4:
		w := op.Base | uint16(rec.OpA)<<8 | uint16(rec.OpB)<<4 | (uint16(rec.Immediate) & 0xF)
		return []uint16{w}, nil

	case isa.ShapeRI8Label:
		w := op.Base | uint16(rec.OpA)<<8 | (uint16(rec.Immediate) & 0xFF)
		return []uint16{w}, nil

	case isa.ShapeRR, isa.ShapeBranch:
		w := op.Base | uint16(rec.OpA)<<4 | uint16(rec.OpB)
		return []uint16{w}, nil

	case isa.ShapeI8:
		w := op.Base | (uint16(rec.Immediate) & 0xFF)
		return []uint16{w}, nil
	}

	return nil, newTokenTypeError("encode: unhandled opcode shape for %q", rec.Opcode)
}
