package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"pancakefix/internal/config"
)

// prompt groups, in the order they are asked
var promptGroups = []struct {
	title string
	keys  []string
}{
	{"Home position", []string{"home_x", "home_y"}},
	{"Valve parameters", []string{"valve_open_z", "valve_close_z"}},
	{"Machine dimensions", []string{"max_x", "max_y"}},
}

// promptSettings asks for the input file and every setting, prefilled with
// the current values. Invalid entries are rejected in place.
func promptSettings(input *string, s *config.Settings) error {
	labels := make(map[string]string)
	for _, f := range config.Fields() {
		labels[f.Key] = f.Label
	}

	values := make(map[string]*string)
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("G-code file to convert").
				Placeholder("logo.gcode").
				Value(input).
				Validate(validateInputPath),
		),
	}

	for _, g := range promptGroups {
		var fields []huh.Field
		for _, key := range g.keys {
			cur, _ := s.Get(key)
			v := config.FormatValue(cur)
			values[key] = &v

			fields = append(fields, huh.NewInput().
				Title(labels[key]).
				Description("Default: "+v).
				Value(values[key]).
				Validate(func(raw string) error {
					_, err := config.ParseValue(key, raw)
					return err
				}))
		}
		groups = append(groups, huh.NewGroup(fields...).Title(g.title))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return fmt.Errorf("prompt cancelled: %w", err)
	}

	for key, v := range values {
		if err := s.Set(key, *v); err != nil {
			return err
		}
	}
	return nil
}

func validateInputPath(raw string) error {
	p := cleanPath(raw)
	if p == "" {
		return errors.New("path cannot be empty")
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("file %q not found", p)
	}
	return nil
}
