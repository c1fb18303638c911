package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pancakefix/internal/gcode"
)

const fixture = `W1 G54
G00 Z0 ;close
G00 X10 Y10
G00 Z-3 ;open
G00 X100 Y90
G1 Z0
`

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "logo.gcode")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestConvertCommandWritesSibling(t *testing.T) {
	in := writeFixture(t)

	out, err := runCmd(t, "convert", in, "--valve-open", "8")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	for _, want := range []string{"2.0000", "X=10.0 to 190.0, Y=16.0 to 176.0", "Fits within X:200mm, Y:192mm", "logo_fixed.gcode"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	b, err := os.ReadFile(gcode.OutputPath(in))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(b), "G00 Z8 ;Valve open\n") {
		t.Fatalf("valve open flag not applied:\n%s", b)
	}
}

func TestConvertCommandPreview(t *testing.T) {
	in := writeFixture(t)
	outPath := filepath.Join(filepath.Dir(in), "result.gcode")

	if _, err := runCmd(t, "convert", in, "-o", outPath, "--preview"); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(in), "result.png")); err != nil {
		t.Fatalf("preview not written: %v", err)
	}
}

func TestConvertCommandMissingInput(t *testing.T) {
	_, err := runCmd(t, "convert", filepath.Join(t.TempDir(), "absent.gcode"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("got %v, want not found error", err)
	}
}

func TestConvertCommandRejectsNegativeSetting(t *testing.T) {
	in := writeFixture(t)

	_, err := runCmd(t, "convert", in, "--home-x=-5")
	if err == nil || !strings.Contains(err.Error(), "must not be negative") {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestConvertCommandRequiresInput(t *testing.T) {
	if _, err := runCmd(t, "convert"); err == nil {
		t.Fatalf("expected an error without input")
	}
}

func TestConfigCommandLayersSources(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "machine.yaml")
	if err := os.WriteFile(cfg, []byte("max_x: 300\nmax_y: 250\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PANCAKEFIX_MAX_Y", "260")

	out, err := runCmd(t, "config", "--config", cfg, "--home-y", "4")
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	for _, want := range []string{"max_x: 300", "max_y: 260", "home_y: 4", "valve_open_z: 10"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCleanPath(t *testing.T) {
	tests := map[string]string{
		`  "C:\art\logo.gcode" `: `C:\art\logo.gcode`,
		`'/tmp/logo.gcode'`:      "/tmp/logo.gcode",
		"plain.gcode":            "plain.gcode",
	}
	for in, want := range tests {
		if got := cleanPath(in); got != want {
			t.Errorf("cleanPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateInputPath(t *testing.T) {
	existing := writeFixture(t)
	missing := filepath.Join(t.TempDir(), "missing.gcode")

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"empty", "", "cannot be empty"},
		{"blank", "   ", "cannot be empty"},
		{"only quotes", `""`, "cannot be empty"},
		{"missing", missing, "not found"},
		{"existing", existing, ""},
		{"quoted existing", ` "` + existing + `" `, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputPath(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRenderReportFlagsOverflow(t *testing.T) {
	c := gcode.Canvas{MaxX: 100, MaxY: 100}
	res := gcode.NewBounds()
	res.Add(5, 5)
	res.Add(120, 50)

	got := renderReport(gcode.Report{Source: res, Result: res}, c)
	if !strings.Contains(got, "Exceeds X:100mm, Y:100mm") {
		t.Fatalf("overflow not reported:\n%s", got)
	}
}
