package asm

import (
	"bytes"
	"testing"
)

func TestEncodeSectionMarkerIsFiveBytesNoColon(t *testing.T) {
	m := sectionMarker("data")
	want := []byte{'d', 'a', 't', 'a', 0x00}
	if !bytes.Equal(m, want) {
		t.Errorf("sectionMarker(%q) = % X, want % X", "data", m, want)
	}
	if len(m) != 5 {
		t.Errorf("sectionMarker length = %d, want 5", len(m))
	}
}

func TestEncodeTextRecordsAlwaysLast(t *testing.T) {
	records := []*Record{
		NewInstruction("", "NOP"),
		NewText("", []uint16{'A'}),
		NewData("", CategoryInt, []uint16{9}),
	}
	out, err := Encode(records)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{
		0x00, 0x00, // NOP
		'd', 'a', 't', 'a', 0x00,
		0x09, 0x00, // data word 9
		't', 'e', 'x', 't', 0x00,
		'A', 0x00, // text word 'A'
	}
	if !bytes.Equal(out, want) {
		t.Errorf("Encode = % X, want % X", out, want)
	}
}

func TestEncodeUnknownOpcodeFails(t *testing.T) {
	rec := NewInstruction("", "BOGUS")
	if _, err := Encode([]*Record{rec}); err == nil {
		t.Error("Encode succeeded, want TokenTypeError for unknown opcode")
	}
}

func TestEncodeOmitsAbsentRegions(t *testing.T) {
	records := []*Record{NewInstruction("", "HALT")}
	out, err := Encode(records)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{0xFF, 0xFF}
	if !bytes.Equal(out, want) {
		t.Errorf("Encode = % X, want % X (no data/text markers expected)", out, want)
	}
}
