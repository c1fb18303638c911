package gcode

import (
	"bufio"
	"io"
	"math"
	"strings"
)

const maxLineSize = 1 << 20

// Bounds is the XY extent of the motion commands in a document. A zero
// Count leaves the sentinel values (+Inf minimums, -Inf maximums) in place.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Count      int
}

// NewBounds returns empty bounds.
func NewBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
}

// Add widens the bounds to include (x, y) and counts one motion command.
func (b *Bounds) Add(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
	b.Count++
}

// Empty reports whether no motion command has been added.
func (b Bounds) Empty() bool {
	return b.Count == 0
}

// Width is the X extent. It is -Inf for empty bounds.
func (b Bounds) Width() float64 {
	return b.MaxX - b.MinX
}

// Height is the Y extent. It is -Inf for empty bounds.
func (b Bounds) Height() float64 {
	return b.MaxY - b.MinY
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Within reports whether the bounds lie inside [home, home+max] on both
// axes, allowing eps for rounding.
func (b Bounds) Within(c Canvas, eps float64) bool {
	if b.Empty() {
		return true
	}
	return b.MinX >= c.HomeX-eps && b.MaxX <= c.HomeX+c.MaxX+eps &&
		b.MinY >= c.HomeY-eps && b.MaxY <= c.HomeY+c.MaxY+eps
}

// Scan reads r line by line and accumulates the bounds of every motion
// command. Other lines are ignored.
func Scan(r io.Reader) (Bounds, error) {
	b := NewBounds()
	err := eachLine(r, func(_ int, raw string) error {
		if x, y, ok := ParseLine(raw).XY(); ok {
			b.Add(x, y)
		}
		return nil
	})
	return b, err
}

// Verify scans a rewritten document. It only reports; content outside the
// canvas is not an error.
func Verify(r io.Reader) (Bounds, error) {
	return Scan(r)
}

// eachLine calls fn with the 1-based line number and the line text stripped
// of its terminator.
func eachLine(r io.Reader, fn func(n int, raw string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	return sc.Err()
}
