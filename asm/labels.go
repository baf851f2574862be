package asm

// Region layout base addresses. The instruction counter and the data
// counter are seeded independently so each region occupies a disjoint
// address range; text records share the data counter and are appended
// after all data for address-computation purposes.
const (
	baseInstruction = 0x2400
	baseData        = 0x8800
)

// resolveLabels walks the post-expansion record stream and assigns an
// address to every labeled record, producing a label -> address table.
// Each Instruction record advances the instruction counter by one
// word; each Data or Text record advances the (shared) data counter by
// its word length. A record's label, if present, is bound to the
// counter value before advancement. Binding a label already present in
// the table fails with a duplicate-label error.
func resolveLabels(records []*Record) (LabelTable, error) {
	table := make(LabelTable)
	instrCounter := int64(baseInstruction)
	dataCounter := int64(baseData)

	var textRecords []*Record
	for _, rec := range records {
		switch rec.Kind {
		case KindInstruction:
			if rec.Label != "" {
				if err := bindLabel(table, rec.Label, instrCounter); err != nil {
					return nil, err
				}
			}
			instrCounter++
		case KindData:
			if rec.Label != "" {
				if err := bindLabel(table, rec.Label, dataCounter); err != nil {
					return nil, err
				}
			}
			dataCounter += int64(rec.WordLen())
		case KindText:
			textRecords = append(textRecords, rec)
		}
	}

	// Text records are appended after all data, regardless of where
	// they appeared in the source stream.
	for _, rec := range textRecords {
		if rec.Label != "" {
			if err := bindLabel(table, rec.Label, dataCounter); err != nil {
				return nil, err
			}
		}
		dataCounter += int64(rec.WordLen())
	}

	return table, nil
}

func bindLabel(table LabelTable, name string, addr int64) error {
	if _, exists := table[name]; exists {
		return newValidationErrorf("duplicate label %q", name)
	}
	table[name] = addr
	return nil
}

// substituteLabels resolves every remaining operand label against
// table. By construction, after Pseudo Expansion only MOVLI and MOVUI
// instructions carry one. MOVLI takes the low byte of the label's
// address, MOVUI the next-higher byte.
func substituteLabels(records []*Record, table LabelTable) error {
	for _, rec := range records {
		if rec.Kind != KindInstruction || !rec.HasOpLabel() {
			continue
		}
		addr, ok := table[rec.OpLabel]
		if !ok {
			return newLabelError(rec.OpLabel)
		}
		switch rec.Opcode {
		case "MOVLI":
			rec.Immediate = uint32(addr) & 0xFF
		case "MOVUI":
			rec.Immediate = (uint32(addr) >> 8) & 0xFF
		default:
			return newTokenTypeError("opcode %q cannot carry an operand label after expansion", rec.Opcode)
		}
		rec.HasImmediate = true
		rec.OpLabel = ""
	}
	return nil
}
