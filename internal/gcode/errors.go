package gcode

import (
	"errors"
	"fmt"
)

// ErrorKind is a coarse classification of conversion failures.
type ErrorKind string

const (
	KindMissingInput     ErrorKind = "missing_input"
	KindInvalidConfig    ErrorKind = "invalid_config"
	KindDegenerateBounds ErrorKind = "degenerate_bounds"
	KindIO               ErrorKind = "io"
)

var (
	ErrNoMotion   = errors.New("no motion commands found")
	ErrZeroExtent = errors.New("motion commands span zero width or height")
	ErrCanvasSize = errors.New("canvas smaller than its margins")
	ErrSamePath   = errors.New("output would overwrite input")
	ErrNotFinite  = errors.New("transform is not finite")
)

// OpError wraps an underlying error with the failing operation and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an *OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
