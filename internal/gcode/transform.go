package gcode

import (
	"fmt"
	"math"
)

// Margin is kept free on every side of the canvas.
const Margin = 10.0

// Canvas is the target work area. Content is placed inside
// [Home, Home+Max] on each axis.
type Canvas struct {
	MaxX, MaxY   float64
	HomeX, HomeY float64
}

// Transform maps source coordinates onto the canvas with one scale factor
// for both axes.
type Transform struct {
	ScaleX, ScaleY      float64
	Scale               float64
	OffsetX, OffsetY    float64
	Width, Height       float64
	NewWidth, NewHeight float64
}

// DeriveTransform fits the bounds into the canvas minus its margins and
// centers the result, shifted by the home position.
func DeriveTransform(b Bounds, c Canvas) (Transform, error) {
	const op = "gcode.derive_transform"

	if b.Empty() {
		return Transform{}, &OpError{Op: op, Kind: KindDegenerateBounds, Err: ErrNoMotion}
	}
	if c.MaxX <= 2*Margin || c.MaxY <= 2*Margin {
		return Transform{}, &OpError{
			Op:   op,
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: %gx%g needs to exceed %g on both axes", ErrCanvasSize, c.MaxX, c.MaxY, 2*Margin),
		}
	}

	t := Transform{Width: b.Width(), Height: b.Height()}
	if t.Width <= 0 || t.Height <= 0 {
		return Transform{}, &OpError{
			Op:   op,
			Kind: KindDegenerateBounds,
			Err:  fmt.Errorf("%w: %gx%g", ErrZeroExtent, t.Width, t.Height),
		}
	}
	if !finite(t.Width, t.Height) {
		return Transform{}, &OpError{
			Op:   op,
			Kind: KindDegenerateBounds,
			Err:  fmt.Errorf("%w: %gx%g", ErrNotFinite, t.Width, t.Height),
		}
	}

	t.ScaleX = (c.MaxX - 2*Margin) / t.Width
	t.ScaleY = (c.MaxY - 2*Margin) / t.Height
	t.Scale = math.Min(t.ScaleX, t.ScaleY)

	t.NewWidth = t.Width * t.Scale
	t.NewHeight = t.Height * t.Scale
	t.OffsetX = c.HomeX + (c.MaxX-t.NewWidth)/2 - b.MinX*t.Scale
	t.OffsetY = c.HomeY + (c.MaxY-t.NewHeight)/2 - b.MinY*t.Scale

	if t.Scale <= 0 || !finite(t.Scale, t.OffsetX, t.OffsetY) {
		return Transform{}, &OpError{
			Op:   op,
			Kind: KindDegenerateBounds,
			Err:  fmt.Errorf("%w: scale %g, offset (%g, %g)", ErrNotFinite, t.Scale, t.OffsetX, t.OffsetY),
		}
	}
	return t, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Apply maps a source point onto the canvas.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}
