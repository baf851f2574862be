package asm

import "testing"

func TestPendingLabelCarriesToNextLine(t *testing.T) {
	lines := []*parsedLine{
		{mode: sectionCode, label: "here", isLabelOnly: true},
		{mode: sectionCode, opcode: "NOP"},
	}
	records, err := buildRecords(lines)
	if err != nil {
		t.Fatalf("buildRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("buildRecords produced %d records, want 1", len(records))
	}
	if records[0].Label != "here" {
		t.Errorf("record label = %q, want %q", records[0].Label, "here")
	}
}

func TestSameLineLabelDoesNotDisturbPending(t *testing.T) {
	lines := []*parsedLine{
		{mode: sectionCode, label: "pending", isLabelOnly: true},
		{mode: sectionCode, label: "own", opcode: "NOP"},
		{mode: sectionCode, opcode: "HALT"},
	}
	records, err := buildRecords(lines)
	if err != nil {
		t.Fatalf("buildRecords failed: %v", err)
	}
	if records[0].Label != "own" {
		t.Errorf("first record label = %q, want %q", records[0].Label, "own")
	}
	if records[1].Label != "pending" {
		t.Errorf("second record label = %q, want %q (carried from the earlier label-only line)", records[1].Label, "pending")
	}
}

func TestBuildInstructionAssignsOperandsByKind(t *testing.T) {
	pl := &parsedLine{
		mode:   sectionCode,
		opcode: "ADD",
		operands: []operand{
			{kind: operandRegister, reg: 1},
			{kind: operandRegister, reg: 2},
			{kind: operandRegister, reg: 3},
		},
	}
	rec := buildInstruction("", pl)
	if !rec.HasOpA || !rec.HasOpB || !rec.HasOpC {
		t.Fatal("buildInstruction did not populate all three register operands")
	}
	if rec.OpA != 1 || rec.OpB != 2 || rec.OpC != 3 {
		t.Errorf("operands = %v/%v/%v, want 1/2/3", rec.OpA, rec.OpB, rec.OpC)
	}
}
