// Package gcode rewrites PancakePainter G-code for Marlin-style machines.
//
// Processing is split into three stages that can be called on their own:
// Scan collects the XY bounds of all motion commands, DeriveTransform turns
// those bounds into a uniform scale and offset for a target canvas, and
// Rewrite streams the document through the workspace, valve and coordinate
// rules. Verify re-scans a rewritten document.
package gcode

import (
	"math"
	"strconv"
	"strings"
)

// Word is a single letter-addressed field of a G-code line, e.g. "X12.5".
// Start and End delimit Value inside the owning line's Raw text.
type Word struct {
	Letter byte
	Value  string
	Start  int
	End    int
}

// Number parses the word value as a finite float.
func (w Word) Number() (float64, bool) {
	return parseNumber(w.Value)
}

// Line is the parsed form of one text line. A line is parsed once and never
// modified; rewrites build a new Line from edited raw text.
type Line struct {
	Raw     string
	Command string
	Words   []Word

	// commentAt is the index of the ';' in Raw, or -1.
	commentAt int
}

// ParseLine splits raw into command, words and trailing comment.
func ParseLine(raw string) Line {
	l := Line{Raw: raw, commentAt: strings.IndexByte(raw, ';')}

	code := raw
	if l.commentAt >= 0 {
		code = raw[:l.commentAt]
	}

	first := true
	for i := 0; i < len(code); {
		if isSpace(code[i]) {
			i++
			continue
		}
		start := i
		for i < len(code) && !isSpace(code[i]) {
			i++
		}
		tok := code[start:i]

		if first {
			l.Command = strings.ToUpper(tok)
			first = false
			continue
		}
		if len(tok) < 2 || !isLetter(tok[0]) {
			continue
		}
		l.Words = append(l.Words, Word{
			Letter: upper(tok[0]),
			Value:  tok[1:],
			Start:  start + 1,
			End:    i,
		})
	}

	return l
}

// HasComment reports whether the line carries a ';' comment.
func (l Line) HasComment() bool {
	return l.commentAt >= 0
}

// Comment returns the comment text without the leading ';'.
func (l Line) Comment() string {
	if l.commentAt < 0 {
		return ""
	}
	return l.Raw[l.commentAt+1:]
}

// Word returns the first word with the given letter.
func (l Line) Word(letter byte) (Word, bool) {
	for _, w := range l.Words {
		if w.Letter == letter {
			return w, true
		}
	}
	return Word{}, false
}

// IsMove reports whether the command is a linear move (G0/G00/G1/G01).
func (l Line) IsMove() bool {
	switch l.Command {
	case "G0", "G00", "G1", "G01":
		return true
	}
	return false
}

// XY returns the coordinates of a motion command: a move whose first two
// words are X and Y with numeric values.
func (l Line) XY() (x, y float64, ok bool) {
	if !l.IsMove() || len(l.Words) < 2 {
		return 0, 0, false
	}
	wx, wy := l.Words[0], l.Words[1]
	if wx.Letter != 'X' || wy.Letter != 'Y' {
		return 0, 0, false
	}
	if x, ok = wx.Number(); !ok {
		return 0, 0, false
	}
	if y, ok = wy.Number(); !ok {
		return 0, 0, false
	}
	return x, y, true
}

func (l Line) withWord(w Word, value string) Line {
	return ParseLine(l.Raw[:w.Start] + value + l.Raw[w.End:])
}

func (l Line) withComment(text string) Line {
	if l.commentAt < 0 {
		return l
	}
	return ParseLine(l.Raw[:l.commentAt+1] + text)
}

func (l Line) withXY(x, y float64) Line {
	wx, wy := l.Words[0], l.Words[1]
	var sb strings.Builder
	sb.WriteString(l.Raw[:wx.Start])
	sb.WriteString(strconv.FormatFloat(x, 'f', 3, 64))
	sb.WriteString(l.Raw[wx.End:wy.Start])
	sb.WriteString(strconv.FormatFloat(y, 'f', 3, 64))
	sb.WriteString(l.Raw[wy.End:])
	return ParseLine(sb.String())
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	switch c := s[0]; {
	case c >= '0' && c <= '9', c == '.', c == '-', c == '+':
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
