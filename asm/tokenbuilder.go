package asm

// buildRecords threads the pending-label carry across the parsed lines
// and assembles each non-label-only line into its Record variant. A
// label-only line (`<name>:` alone) sets the pending label for the next
// line; a line with its own same-line label prefix uses that label
// instead and leaves the pending slot untouched.
func buildRecords(lines []*parsedLine) ([]*Record, error) {
	records := make([]*Record, 0, len(lines))
	pending := ""

	for _, pl := range lines {
		if pl.isLabelOnly {
			pending = pl.label
			continue
		}

		label := pl.label
		if label == "" {
			label = pending
			pending = ""
		}

		var rec *Record
		switch pl.mode {
		case sectionCode:
			rec = buildInstruction(label, pl)
		case sectionData:
			rec = NewData(label, pl.category, pl.words)
		case sectionText:
			rec = NewText(label, pl.words)
		default:
			return nil, newValidationError(pl.source, "unknown section mode")
		}
		records = append(records, rec)
	}
	return records, nil
}

// buildInstruction assembles an Instruction record from the Validator's
// classified operand list. Registers fill op_a, op_b, op_c in the order
// they appear; an immediate or operand label fills the corresponding
// scalar field regardless of its operand position.
func buildInstruction(label string, pl *parsedLine) *Record {
	rec := NewInstruction(label, pl.opcode)
	regIdx := 0
	for _, op := range pl.operands {
		switch op.kind {
		case operandRegister:
			switch regIdx {
			case 0:
				rec.OpA, rec.HasOpA = op.reg, true
			case 1:
				rec.OpB, rec.HasOpB = op.reg, true
			case 2:
				rec.OpC, rec.HasOpC = op.reg, true
			}
			regIdx++
		case operandImmediate:
			rec.Immediate, rec.HasImmediate = op.imm, true
		case operandLabel:
			rec.OpLabel = op.label
		}
	}
	return rec
}
