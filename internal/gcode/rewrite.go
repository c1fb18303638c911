package gcode

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	workspacePrefix = "W1 "
	workspaceNote   = " ;Removed for Marlin compatibility"
)

// Stats counts what the rewrite pass did.
type Stats struct {
	Lines            int
	WorkspaceRemoved int
	ValveOpened      int
	ValveClosed      int
	UnmatchedValve   int
	Scaled           int
}

// Segment is one transformed move between two consecutive motion commands.
// Open is the valve state while the move runs.
type Segment struct {
	FromX, FromY float64
	ToX, ToY     float64
	Open         bool
}

type RewriteOption func(*rewriter)

// WithLogger sets the logger used for per-line diagnostics.
func WithLogger(l *log.Logger) RewriteOption {
	return func(rw *rewriter) {
		if l != nil {
			rw.logger = l
		}
	}
}

// WithPathRecorder registers fn to receive every transformed segment.
func WithPathRecorder(fn func(Segment)) RewriteOption {
	return func(rw *rewriter) {
		rw.record = fn
	}
}

type rewriter struct {
	t      Transform
	v      Valve
	logger *log.Logger
	record func(Segment)

	stats   Stats
	open    bool
	hasLast bool
	lastX   float64
	lastY   float64
}

func newRewriter(t Transform, v Valve, opts ...RewriteOption) *rewriter {
	rw := &rewriter{
		t:      t,
		v:      v,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Rewrite streams r to w, applying the workspace, valve and coordinate
// rules to each line. Every output line ends with a single '\n'.
func Rewrite(r io.Reader, w io.Writer, t Transform, v Valve, opts ...RewriteOption) (Stats, error) {
	rw := newRewriter(t, v, opts...)
	bw := bufio.NewWriter(w)

	err := eachLine(r, func(n int, raw string) error {
		if _, err := bw.WriteString(rw.line(n, raw)); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return rw.stats, err
	}
	return rw.stats, bw.Flush()
}

func (rw *rewriter) line(n int, raw string) string {
	rw.stats.Lines++

	if strings.HasPrefix(raw, workspacePrefix) {
		rw.stats.WorkspaceRemoved++
		rw.logger.Debug("workspace command removed", "line", n, "text", raw)
		return ";" + raw + workspaceNote
	}

	l := ParseLine(raw)

	intent := Classify(l)
	switch {
	case intent == ValveUnmatched:
		rw.stats.UnmatchedValve++
		rw.logger.Warn("z line left unchanged", "line", n, "text", raw)
	case intent.Opens():
		rw.stats.ValveOpened++
		rw.open = true
		l = rw.v.Apply(l, intent)
	case intent.Closes():
		rw.stats.ValveClosed++
		rw.open = false
		l = rw.v.Apply(l, intent)
	}

	x, y, ok := l.XY()
	if !ok {
		return l.Raw
	}

	nx, ny := rw.t.Apply(x, y)
	rw.stats.Scaled++
	if rw.record != nil && rw.hasLast {
		rw.record(Segment{FromX: rw.lastX, FromY: rw.lastY, ToX: nx, ToY: ny, Open: rw.open})
	}
	rw.lastX, rw.lastY, rw.hasLast = nx, ny, true

	return l.withXY(nx, ny).Raw
}
