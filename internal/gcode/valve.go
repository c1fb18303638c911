package gcode

import "strings"

// ValveIntent is the valve state a Z line is taken to express.
type ValveIntent int

const (
	// ValveNone marks a line without a Z word.
	ValveNone ValveIntent = iota
	// ValveOpenNegative is any line with a negative Z value.
	ValveOpenNegative
	// ValveOpenComment is a move with a non-negative Z and an "open" comment.
	ValveOpenComment
	// ValveCloseComment is a move with a non-negative Z and a "close" comment.
	ValveCloseComment
	// ValveCloseBareZero is a move consisting of nothing but "Z0".
	// An unannotated Z0 is assumed to mean closed, even though it could be a
	// deliberate open-at-zero.
	ValveCloseBareZero
	// ValveUnmatched is a Z line none of the rules recognise.
	ValveUnmatched
)

var valveIntentNames = [...]string{
	ValveNone:          "none",
	ValveOpenNegative:  "open-negative",
	ValveOpenComment:   "open-comment",
	ValveCloseComment:  "close-comment",
	ValveCloseBareZero: "close-bare-zero",
	ValveUnmatched:     "unmatched",
}

func (v ValveIntent) String() string {
	if v < 0 || int(v) >= len(valveIntentNames) {
		return "unknown"
	}
	return valveIntentNames[v]
}

// Opens reports whether the intent leaves the valve open.
func (v ValveIntent) Opens() bool {
	return v == ValveOpenNegative || v == ValveOpenComment
}

// Closes reports whether the intent leaves the valve closed.
func (v ValveIntent) Closes() bool {
	return v == ValveCloseComment || v == ValveCloseBareZero
}

const (
	openComment   = "Valve open"
	closedComment = "Valve closed"
)

// Classify decides the valve intent of a parsed line. Rules are tried in
// order and the first match wins.
func Classify(l Line) ValveIntent {
	z, ok := l.Word('Z')
	if !ok {
		return ValveNone
	}

	n, numeric := z.Number()
	if numeric && strings.HasPrefix(z.Value, "-") {
		return ValveOpenNegative
	}
	if !numeric || !l.IsMove() || n < 0 {
		return ValveUnmatched
	}

	comment := strings.ToLower(l.Comment())
	switch {
	case l.HasComment() && strings.Contains(comment, "open"):
		return ValveOpenComment
	case l.HasComment() && strings.Contains(comment, "clos"):
		return ValveCloseComment
	case !l.HasComment() && len(l.Words) == 1 && z.Value == "0":
		return ValveCloseBareZero
	}
	return ValveUnmatched
}

// Valve holds the Z heights written for the open and closed valve states.
type Valve struct {
	OpenZ  float64
	CloseZ float64
}

// Apply rewrites l according to intent. Lines with ValveNone or
// ValveUnmatched are returned unchanged.
func (v Valve) Apply(l Line, intent ValveIntent) Line {
	z, ok := l.Word('Z')
	if !ok {
		return l
	}

	switch intent {
	case ValveOpenNegative, ValveOpenComment:
		l = l.withWord(z, formatNumber(v.OpenZ))
		return l.withComment(openComment)
	case ValveCloseComment:
		l = l.withWord(z, formatNumber(v.CloseZ))
		return l.withComment(closedComment)
	case ValveCloseBareZero:
		return l.withWord(z, formatNumber(v.CloseZ))
	}
	return l
}
