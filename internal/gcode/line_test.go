package gcode

import "testing"

func TestParseLineSplitsCommandWordsAndComment(t *testing.T) {
	l := ParseLine("g00 X10.5 y-2 Z3 ;travel to start")

	if l.Command != "G00" {
		t.Fatalf("command = %q, want G00", l.Command)
	}
	if len(l.Words) != 3 {
		t.Fatalf("got %d words, want 3", len(l.Words))
	}
	if l.Words[1].Letter != 'Y' || l.Words[1].Value != "-2" {
		t.Fatalf("second word = %c%s, want Y-2", l.Words[1].Letter, l.Words[1].Value)
	}
	if !l.HasComment() || l.Comment() != "travel to start" {
		t.Fatalf("comment = %q", l.Comment())
	}

	z, ok := l.Word('Z')
	if !ok {
		t.Fatalf("expected a Z word")
	}
	if got := l.Raw[z.Start:z.End]; got != "3" {
		t.Fatalf("Z span = %q, want 3", got)
	}
}

func TestParseLineIgnoresWordsInsideComment(t *testing.T) {
	l := ParseLine("M3 ;Z-5 X1 Y2")

	if _, ok := l.Word('Z'); ok {
		t.Fatalf("Z inside the comment must not be parsed")
	}
	if _, _, ok := l.XY(); ok {
		t.Fatalf("M3 is not a motion command")
	}
}

func TestLineXY(t *testing.T) {
	tests := []struct {
		raw  string
		x, y float64
		ok   bool
	}{
		{"G00 X10 Y20", 10, 20, true},
		{"G0 X1.5 Y2.25 ;comment", 1.5, 2.25, true},
		{"G1 X-3 Y4", -3, 4, true},
		{"G01 X5 Y6 Z1", 5, 6, true},
		{"G00 Y20 X10", 0, 0, false},
		{"G00 X10", 0, 0, false},
		{"G00 Xabc Y1", 0, 0, false},
		{"G28 X0 Y0", 0, 0, false},
		{"", 0, 0, false},
		{"; G00 X1 Y1", 0, 0, false},
	}

	for _, tt := range tests {
		x, y, ok := ParseLine(tt.raw).XY()
		if ok != tt.ok {
			t.Errorf("%q: ok = %v, want %v", tt.raw, ok, tt.ok)
			continue
		}
		if ok && (x != tt.x || y != tt.y) {
			t.Errorf("%q: got (%g, %g), want (%g, %g)", tt.raw, x, y, tt.x, tt.y)
		}
	}
}

func TestWithXYPreservesSurroundings(t *testing.T) {
	l := ParseLine("G00  X1 Y2   ;keep me")
	got := l.withXY(12.3456, 7).Raw

	if want := "G00  X12.346 Y7.000   ;keep me"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
