// Package config resolves the machine settings used for a conversion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"pancakefix/internal/gcode"
)

// Settings are the numeric knobs of a conversion. All values are
// millimetres and must be non-negative.
type Settings struct {
	MaxX        float64 `yaml:"max_x"`
	MaxY        float64 `yaml:"max_y"`
	HomeX       float64 `yaml:"home_x"`
	HomeY       float64 `yaml:"home_y"`
	ValveOpenZ  float64 `yaml:"valve_open_z"`
	ValveCloseZ float64 `yaml:"valve_close_z"`
}

func Default() Settings {
	return Settings{
		MaxX:        200,
		MaxY:        192,
		HomeX:       0,
		HomeY:       0,
		ValveOpenZ:  10,
		ValveCloseZ: 0,
	}
}

// Field describes one setting: its YAML key, environment variable and a
// human label.
type Field struct {
	Key   string
	Env   string
	Label string
	ptr   func(*Settings) *float64
}

var fields = []Field{
	{Key: "max_x", Env: "PANCAKEFIX_MAX_X", Label: "Maximum X dimension (mm)", ptr: func(s *Settings) *float64 { return &s.MaxX }},
	{Key: "max_y", Env: "PANCAKEFIX_MAX_Y", Label: "Maximum Y dimension (mm)", ptr: func(s *Settings) *float64 { return &s.MaxY }},
	{Key: "home_x", Env: "PANCAKEFIX_HOME_X", Label: "Home X position (mm)", ptr: func(s *Settings) *float64 { return &s.HomeX }},
	{Key: "home_y", Env: "PANCAKEFIX_HOME_Y", Label: "Home Y position (mm)", ptr: func(s *Settings) *float64 { return &s.HomeY }},
	{Key: "valve_open_z", Env: "PANCAKEFIX_VALVE_OPEN_Z", Label: "Z value for valve OPEN (mm)", ptr: func(s *Settings) *float64 { return &s.ValveOpenZ }},
	{Key: "valve_close_z", Env: "PANCAKEFIX_VALVE_CLOSE_Z", Label: "Z value for valve CLOSED (mm)", ptr: func(s *Settings) *float64 { return &s.ValveCloseZ }},
}

// Fields lists every setting in a stable order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func lookupField(key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Get returns the current value of the setting named key.
func (s Settings) Get(key string) (float64, bool) {
	f, ok := lookupField(key)
	if !ok {
		return 0, false
	}
	return *f.ptr(&s), true
}

// Set parses raw and stores it under key.
func (s *Settings) Set(key, raw string) error {
	f, ok := lookupField(key)
	if !ok {
		return &ValidationError{Field: key, Value: raw, Reason: "unknown setting"}
	}
	v, err := ParseValue(key, raw)
	if err != nil {
		return err
	}
	*f.ptr(s) = v
	return nil
}

// ValidationError reports a setting value that cannot be used.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid value %q: %s", e.Field, e.Value, e.Reason)
}

// ParseValue turns user input into a setting value. It accepts finite,
// non-negative numbers only.
func ParseValue(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "value is empty"}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not a finite number"}
	}
	if v < 0 {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "must not be negative"}
	}
	return v, nil
}

// Validate checks every field and that the canvas leaves room inside its
// margins.
func (s Settings) Validate() error {
	for _, f := range fields {
		v := *f.ptr(&s)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ValidationError{Field: f.Key, Value: FormatValue(v), Reason: "not a finite number"}
		}
		if v < 0 {
			return &ValidationError{Field: f.Key, Value: FormatValue(v), Reason: "must not be negative"}
		}
	}
	if s.MaxX <= 2*gcode.Margin {
		return &ValidationError{Field: "max_x", Value: FormatValue(s.MaxX), Reason: fmt.Sprintf("must exceed %g", 2*gcode.Margin)}
	}
	if s.MaxY <= 2*gcode.Margin {
		return &ValidationError{Field: "max_y", Value: FormatValue(s.MaxY), Reason: fmt.Sprintf("must exceed %g", 2*gcode.Margin)}
	}
	return nil
}

func (s Settings) Canvas() gcode.Canvas {
	return gcode.Canvas{MaxX: s.MaxX, MaxY: s.MaxY, HomeX: s.HomeX, HomeY: s.HomeY}
}

func (s Settings) Valve() gcode.Valve {
	return gcode.Valve{OpenZ: s.ValveOpenZ, CloseZ: s.ValveCloseZ}
}

// Load reads a YAML file over base. Keys missing from the file keep their
// base value.
func Load(path string, base Settings) (Settings, error) {
	const op = "config.load"

	b, err := os.ReadFile(path)
	if err != nil {
		kind := gcode.KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = gcode.KindMissingInput
		}
		return base, &gcode.OpError{Op: op, Kind: kind, Path: path, Err: err}
	}

	s := base
	if err := yaml.Unmarshal(b, &s); err != nil {
		return base, &gcode.OpError{Op: op, Kind: gcode.KindInvalidConfig, Path: path, Err: err}
	}
	if err := s.Validate(); err != nil {
		return base, &gcode.OpError{Op: op, Kind: gcode.KindInvalidConfig, Path: path, Err: err}
	}
	return s, nil
}

// FromEnv applies PANCAKEFIX_* variables found through lookup over base.
func FromEnv(base Settings, lookup func(string) (string, bool)) (Settings, error) {
	s := base
	for _, f := range fields {
		raw, ok := lookup(f.Env)
		if !ok {
			continue
		}
		if err := s.Set(f.Key, raw); err != nil {
			return base, &gcode.OpError{Op: "config.env", Kind: gcode.KindInvalidConfig, Err: fmt.Errorf("%s: %w", f.Env, err)}
		}
	}
	return s, nil
}

// Marshal renders the settings as YAML.
func (s Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// FormatValue renders a setting value without trailing zeros.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
