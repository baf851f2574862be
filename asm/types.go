package asm

import "github.com/dthorpe/iridium/isa"

// RecordKind discriminates the three Record variants the Token Builder
// produces: Instruction, Data, and Text.
type RecordKind byte

const (
	KindInstruction RecordKind = iota
	KindData
	KindText
)

func (k RecordKind) String() string {
	switch k {
	case KindInstruction:
		return "instruction"
	case KindData:
		return "data"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// DataCategory identifies which data directive produced a Data record,
// so later stages that care (none currently do, but the Token Builder's
// lowerers are organized around it) can dispatch on it.
type DataCategory byte

const (
	CategoryInt DataCategory = iota
	CategoryLong
	CategoryHalf
	CategoryFloat
	CategoryChar
	CategorySection
)

// Record is the tagged-variant unit produced by the Token Builder and
// consumed by every later stage. Only the fields relevant to Kind are
// populated, and each consumer switches on Kind before reading them.
// Reading another variant's fields is not checked: they hold zero
// values.
type Record struct {
	Kind  RecordKind
	Label string // attached label name, empty if none

	// Instruction fields, valid when Kind == KindInstruction.
	Opcode                 string
	OpA, OpB, OpC          isa.Register
	HasOpA, HasOpB, HasOpC bool
	Immediate              uint32
	HasImmediate           bool
	OpLabel                string // label name without the leading '@'; empty if none

	// Data/Text fields, valid when Kind == KindData or KindText.
	Category DataCategory
	Words    []uint16
}

// NewInstruction builds a bare Instruction record carrying only its
// label and opcode; callers set operand fields afterward.
func NewInstruction(label, opcode string) *Record {
	return &Record{Kind: KindInstruction, Label: label, Opcode: opcode}
}

// NewData builds a Data record already lowered to its final words.
func NewData(label string, category DataCategory, words []uint16) *Record {
	return &Record{Kind: KindData, Label: label, Category: category, Words: words}
}

// NewText builds a Text record already lowered to its final words.
func NewText(label string, words []uint16) *Record {
	return &Record{Kind: KindText, Label: label, Words: words}
}

// HasOpLabel reports whether the instruction carries a pending symbolic
// operand, i.e. an operand of the form @name not yet resolved to an
// immediate.
func (r *Record) HasOpLabel() bool {
	return r.Kind == KindInstruction && r.OpLabel != ""
}

// WordLen returns the number of 16-bit words this record contributes to
// its region: 1 for an Instruction (pre-expansion and post-expansion
// records are always single instructions; the Pseudo Expander is what
// turns one label-bearing instruction into three), and len(Words) for
// Data/Text.
func (r *Record) WordLen() int {
	switch r.Kind {
	case KindInstruction:
		return 1
	default:
		return len(r.Words)
	}
}

// LabelTable maps a resolved label name to its 64-bit signed address.
type LabelTable map[string]int64
