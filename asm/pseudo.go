package asm

import "github.com/dthorpe/iridium/isa"

// expandPseudo rewrites every instruction carrying a pending operand
// label into a fixed-length MOVLI/MOVUI/terminal sequence, so that
// address computation in the Label Resolver depends only on the count
// and kind of records seen, never on label values. It also
// canonicalizes a branch instruction's single-register form so only
// op_b ever carries the register. Data and Text records pass through
// unchanged.
func expandPseudo(records []*Record) ([]*Record, error) {
	out := make([]*Record, 0, len(records))
	for _, rec := range records {
		if rec.Kind != KindInstruction {
			out = append(out, rec)
			continue
		}

		if isa.BranchOpcode(rec.Opcode) && !rec.HasOpLabel() && rec.HasOpA && !rec.HasOpB {
			rec.OpB, rec.HasOpB = rec.OpA, true
			rec.OpA, rec.HasOpA = isa.RegZero, false
		}

		if !rec.HasOpLabel() {
			out = append(out, rec)
			continue
		}

		switch {
		case isa.LoadStoreOpcode(rec.Opcode):
			out = append(out, expandLoadStore(rec)...)
		case isa.BranchOpcode(rec.Opcode):
			out = append(out, expandBranch(rec)...)
		case isa.PseudoSink(rec.Opcode):
			out = append(out, rec)
		default:
			return nil, newValidationErrorf("opcode %q cannot carry an operand label", rec.Opcode)
		}
	}
	return out, nil
}

// expandLoadStore expands a LOAD/STORE instruction whose @label names
// the address to load/store through op_b into the MOVLI/MOVUI pair
// that loads that address into op_b, followed by the original
// instruction with its operand label cleared.
func expandLoadStore(rec *Record) []*Record {
	target, label := rec.OpB, rec.OpLabel

	movli := NewInstruction(rec.Label, "MOVLI")
	movli.OpA, movli.HasOpA = target, true
	movli.OpLabel = label

	movui := NewInstruction("", "MOVUI")
	movui.OpA, movui.HasOpA = target, true
	movui.OpLabel = label

	term := NewInstruction("", rec.Opcode)
	term.OpA, term.HasOpA = rec.OpA, rec.HasOpA
	term.OpB, term.HasOpB = rec.OpB, rec.HasOpB
	term.OpC, term.HasOpC = rec.OpC, rec.HasOpC

	return []*Record{movli, movui, term}
}

// expandBranch expands a branch instruction whose @label names a
// target address, loading it into op_a via MOVLI/MOVUI before the
// branch itself.
func expandBranch(rec *Record) []*Record {
	target, label := rec.OpA, rec.OpLabel

	movli := NewInstruction(rec.Label, "MOVLI")
	movli.OpA, movli.HasOpA = target, true
	movli.OpLabel = label

	movui := NewInstruction("", "MOVUI")
	movui.OpA, movui.HasOpA = target, true
	movui.OpLabel = label

	term := NewInstruction("", rec.Opcode)
	term.OpA, term.HasOpA = rec.OpA, rec.HasOpA
	term.OpB, term.HasOpB = rec.OpB, rec.HasOpB

	return []*Record{movli, movui, term}
}
