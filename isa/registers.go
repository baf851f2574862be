// Package isa describes the target 16-bit RISC-style instruction set: its
// register file, its opcode table, and the operand shape each opcode
// requires. The assembler packages build on top of this table instead of
// hard-coding opcode bit patterns.
package isa

// Register identifies one of the 16 general-purpose and special registers.
type Register byte

// The 16 registers, in register-file order.
const (
	RegZero Register = iota
	RegG0
	RegG1
	RegG2
	RegG3
	RegG4
	RegG5
	RegG6
	RegG7
	RegG8
	RegG9
	RegUA
	RegSP
	RegFP
	RegRA
	RegPC
)

var registerNames = map[string]Register{
	"$zero": RegZero,
	"$g0":   RegG0,
	"$g1":   RegG1,
	"$g2":   RegG2,
	"$g3":   RegG3,
	"$g4":   RegG4,
	"$g5":   RegG5,
	"$g6":   RegG6,
	"$g7":   RegG7,
	"$g8":   RegG8,
	"$g9":   RegG9,
	"$ua":   RegUA,
	"$sp":   RegSP,
	"$fp":   RegFP,
	"$ra":   RegRA,
	"$pc":   RegPC,
}

var registerStrings = func() map[Register]string {
	m := make(map[Register]string, len(registerNames))
	for name, r := range registerNames {
		m[r] = name
	}
	return m
}()

// LookupRegister returns the register identified by name (e.g. "$g0") and
// reports whether name is a known register.
func LookupRegister(name string) (Register, bool) {
	r, ok := registerNames[name]
	return r, ok
}

// IsRegisterName reports whether s has the lexical shape of a register
// reference, i.e. it begins with '$'. It does not validate that the name
// is one of the 16 known registers.
func IsRegisterName(s string) bool {
	return len(s) > 0 && s[0] == '$'
}

// String returns the canonical source-level spelling of the register.
func (r Register) String() string {
	if name, ok := registerStrings[r]; ok {
		return name
	}
	return "$?"
}

// branchStackRegisters are the only registers that may appear alone as the
// single-register form of a branch instruction.
var branchStackRegisters = map[Register]bool{
	RegSP: true,
	RegFP: true,
	RegRA: true,
	RegPC: true,
}

// IsBranchSingleRegister reports whether r is one of $sp/$fp/$ra/$pc, the
// only registers the single-register branch form accepts.
func IsBranchSingleRegister(r Register) bool {
	return branchStackRegisters[r]
}
