package asm

import (
	"bytes"
	"strings"
	"testing"
)

func assemble(t *testing.T, source string) *Result {
	t.Helper()
	result, err := Assemble(strings.NewReader(source), nil)
	if err != nil {
		t.Fatalf("Assemble(%q) failed: %v", source, err)
	}
	return result
}

func checkBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Errorf("got bytes % X, want % X", got, want)
	}
}

func TestNopAndHalt(t *testing.T) {
	result := assemble(t, "NOP\nHALT\n")
	checkBytes(t, result.Bytes, []byte{0x00, 0x00, 0xFF, 0xFF})
}

func TestRRREncoding(t *testing.T) {
	result := assemble(t, "ADD $g0, $zero, $g1\n")
	checkBytes(t, result.Bytes, []byte{0x02, 0x11})
}

func TestRRI4Immediate(t *testing.T) {
	result := assemble(t, "ADDI $g8, $g9, 10\n")
	checkBytes(t, result.Bytes, []byte{0xAA, 0x39})
}

func TestRI8Immediate(t *testing.T) {
	result := assemble(t, "MOVUI $g5, 0x75\n")
	checkBytes(t, result.Bytes, []byte{0x75, 0xC6})
}

func TestSyscall(t *testing.T) {
	result := assemble(t, "syscall 19\n")
	checkBytes(t, result.Bytes, []byte{0x13, 0xFC})
}

// TestLabelExpansionAndResolution follows the label-expansion scenario:
// a LOAD with a trailing @label expands into a MOVLI/MOVUI pair that
// loads the label's address into op_b, followed by the original LOAD
// with its operand label cleared. The data region starts at 0x8800,
// so target's low byte is 0x00 and high byte is 0x88.
func TestLabelExpansionAndResolution(t *testing.T) {
	source := "start: LOAD $g5, $g8, $g9, @target\n" +
		"       HALT\n" +
		"data:\n" +
		"target: .int 42\n"
	result := assemble(t, source)

	if got, want := result.Labels["start"], int64(0x2400); got != want {
		t.Errorf("start = %#x, want %#x", got, want)
	}
	if got, want := result.Labels["target"], int64(0x8800); got != want {
		t.Errorf("target = %#x, want %#x", got, want)
	}

	want := []byte{
		0x00, 0xD9, // MOVLI $g8, 0x00  -> 0xD900
		0x88, 0xC9, // MOVUI $g8, 0x88  -> 0xC988
		0x9A, 0xA6, // LOAD $g5, $g8, $g9 -> 0xA69A
		0xFF, 0xFF, // HALT
		'd', 'a', 't', 'a', 0x00, // data section marker
		0x2A, 0x00, // target: .int 42
	}
	checkBytes(t, result.Bytes, want)
}

func TestUnknownOpcodeFails(t *testing.T) {
	_, err := Assemble(strings.NewReader("XOR $g0, $g1, $g2\n"), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure for unknown opcode")
	}
}

func TestDuplicateLabelFails(t *testing.T) {
	source := "a: NOP\n" +
		"a: HALT\n"
	_, err := Assemble(strings.NewReader(source), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure for duplicate label")
	}
}

func TestUnresolvedLabelFails(t *testing.T) {
	_, err := Assemble(strings.NewReader("JUMP $zero, $zero, @nowhere\n"), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure for unresolved label")
	}
}

func TestDataInCodeSectionFails(t *testing.T) {
	_, err := Assemble(strings.NewReader(".int 5\n"), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure for data directive in code section")
	}
}

func TestInstructionInDataSectionFails(t *testing.T) {
	source := "NOP\n" +
		"data:\n" +
		"NOP\n"
	_, err := Assemble(strings.NewReader(source), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure for instruction in data section")
	}
}

func TestSectionTransitionBackwardFails(t *testing.T) {
	source := "NOP\n" +
		"text:\n" +
		".text 1 \"a\"\n" +
		"data:\n"
	_, err := Assemble(strings.NewReader(source), nil)
	if err == nil {
		t.Fatal("Assemble succeeded, want failure transitioning out of text mode")
	}
}

func TestTextSectionOrdersAfterData(t *testing.T) {
	source := "NOP\n" +
		"data:\n" +
		"d: .int 1\n" +
		"text:\n" +
		"t: .text 1 \"A\"\n"
	result := assemble(t, source)
	if got, want := result.Labels["d"], int64(0x8800); got != want {
		t.Errorf("d = %#x, want %#x", got, want)
	}
	if got, want := result.Labels["t"], int64(0x8801); got != want {
		t.Errorf("t = %#x, want %#x", got, want)
	}
}

func TestBranchSingleRegisterForm(t *testing.T) {
	result := assemble(t, "JUMP $ra\n")
	// JUMP base 0xF200, canonicalized into op_b: Ra=0, Rb=$ra(0xE) -> 0xF20E
	checkBytes(t, result.Bytes, []byte{0x0E, 0xF2})
}

func TestCLIMismatchedSuffixIsCLIError(t *testing.T) {
	err := NewCLIError("source file %q must have a .asm suffix", "foo.txt")
	if _, ok := err.(*CLIError); !ok {
		t.Fatalf("NewCLIError returned %T, want *CLIError", err)
	}
}
