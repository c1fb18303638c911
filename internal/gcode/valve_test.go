package gcode

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want ValveIntent
	}{
		{"G1 Z-5.0 ;notes", ValveOpenNegative},
		{"G00 Z-1", ValveOpenNegative},
		{"G00 Z-2 ;close", ValveOpenNegative},
		{"G00 Z5 ;Open valve", ValveOpenComment},
		{"G01 Z0 ;close", ValveCloseComment},
		{"G01 Z3 ; Valve CLOSED", ValveCloseComment},
		{"G1 Z0", ValveCloseBareZero},
		{"G0 Z0", ValveCloseBareZero},
		{"G1 Z0.0", ValveUnmatched},
		{"G1 Z5", ValveUnmatched},
		{"G1 Z0 ;pen", ValveUnmatched},
		{"G92 Z0", ValveUnmatched},
		{"G00 X1 Y2", ValveNone},
		{"M3 S1000", ValveNone},
		{"", ValveNone},
	}

	for _, tt := range tests {
		if got := Classify(ParseLine(tt.raw)); got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestValveApply(t *testing.T) {
	v := Valve{OpenZ: 10, CloseZ: 2.5}

	tests := []struct {
		raw  string
		want string
	}{
		{"G1 Z-5.0 ;notes", "G1 Z10 ;Valve open"},
		{"G1 Z-5.0", "G1 Z10"},
		{"G00 Z5 ;open valve", "G00 Z10 ;Valve open"},
		{"G01 Z0 ;close", "G01 Z2.5 ;Valve closed"},
		{"G01 Z0   ;closing", "G01 Z2.5   ;Valve closed"},
		{"G1 Z0", "G1 Z2.5"},
		{"G1 Z7", "G1 Z7"},
		{"G00 X1 Y2", "G00 X1 Y2"},
	}

	for _, tt := range tests {
		l := ParseLine(tt.raw)
		if got := v.Apply(l, Classify(l)).Raw; got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestValveIntentState(t *testing.T) {
	if !ValveOpenNegative.Opens() || !ValveOpenComment.Opens() {
		t.Fatalf("open intents must open")
	}
	if !ValveCloseComment.Closes() || !ValveCloseBareZero.Closes() {
		t.Fatalf("close intents must close")
	}
	if ValveUnmatched.Opens() || ValveUnmatched.Closes() || ValveNone.Opens() {
		t.Fatalf("unmatched and none leave the state alone")
	}
	if ValveCloseBareZero.String() != "close-bare-zero" {
		t.Fatalf("unexpected name %q", ValveCloseBareZero.String())
	}
}
