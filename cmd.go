package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pancakefix/internal/config"
	"pancakefix/internal/gcode"
	"pancakefix/internal/preview"
)

type options struct {
	configPath  string
	output      string
	preview     bool
	interactive bool
	debug       bool
}

// flag name -> settings key
var settingFlags = []struct {
	flag, key, usage string
}{
	{"max-x", "max_x", "Maximum X dimension of the machine (mm)"},
	{"max-y", "max_y", "Maximum Y dimension of the machine (mm)"},
	{"home-x", "home_x", "Home X position (mm)"},
	{"home-y", "home_y", "Home Y position (mm)"},
	{"valve-open", "valve_open_z", "Z value written for valve open (mm)"},
	{"valve-close", "valve_close_z", "Z value written for valve closed (mm)"},
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pancakefix",
		Short:         "Convert PancakePainter G-code for Marlin machines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func newConvertCmd() *cobra.Command {
	var opts options

	c := &cobra.Command{
		Use:   "convert [file]",
		Short: "Rescale, recenter and fix valve commands of a G-code file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), opts.debug)

			settings, err := resolveSettings(cmd, opts.configPath)
			if err != nil {
				return err
			}

			var input string
			if len(args) == 1 {
				input = args[0]
			}
			if opts.interactive {
				if err := promptSettings(&input, &settings); err != nil {
					return err
				}
			}
			input = cleanPath(input)
			if input == "" {
				return errors.New("no input file given")
			}
			if err := settings.Validate(); err != nil {
				return err
			}

			return runConvert(cmd.OutOrStdout(), logger, input, settings, opts)
		},
	}

	addSettingFlags(c)
	c.Flags().StringVar(&opts.configPath, "config", "", "YAML file with machine settings")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default: <input>_fixed<ext>)")
	c.Flags().BoolVar(&opts.preview, "preview", false, "Also write a PNG preview of the converted toolpath")
	c.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for the input file and all settings")
	c.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	return c
}

func newConfigCmd() *cobra.Command {
	var configPath string

	c := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := resolveSettings(cmd, configPath)
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			b, err := settings.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	addSettingFlags(c)
	c.Flags().StringVar(&configPath, "config", "", "YAML file with machine settings")
	return c
}

func addSettingFlags(c *cobra.Command) {
	def := config.Default()
	for _, f := range settingFlags {
		v, _ := def.Get(f.key)
		c.Flags().Float64(f.flag, v, f.usage)
	}
}

// resolveSettings layers defaults, the YAML file, PANCAKEFIX_* variables and
// explicitly set flags, in that order.
func resolveSettings(cmd *cobra.Command, configPath string) (config.Settings, error) {
	settings := config.Default()

	if configPath != "" {
		s, err := config.Load(configPath, settings)
		if err != nil {
			return settings, err
		}
		settings = s
	}

	settings, err := config.FromEnv(settings, os.LookupEnv)
	if err != nil {
		return settings, err
	}

	for _, f := range settingFlags {
		fl := cmd.Flags().Lookup(f.flag)
		if fl == nil || !fl.Changed {
			continue
		}
		if err := settings.Set(f.key, fl.Value.String()); err != nil {
			return settings, fmt.Errorf("--%s: %w", f.flag, err)
		}
	}
	return settings, nil
}

func runConvert(out io.Writer, logger *log.Logger, input string, settings config.Settings, opts options) error {
	outPath := opts.output
	if outPath == "" {
		outPath = gcode.OutputPath(input)
	}

	var segs []gcode.Segment
	rwOpts := []gcode.RewriteOption{gcode.WithLogger(logger)}
	if opts.preview {
		rwOpts = append(rwOpts, gcode.WithPathRecorder(func(s gcode.Segment) {
			segs = append(segs, s)
		}))
	}

	logger.Debug("converting", "input", input, "output", outPath)
	rep, err := gcode.Convert(input, outPath, settings.Canvas(), settings.Valve(), rwOpts...)
	if err != nil {
		if gcode.IsKind(err, gcode.KindMissingInput) {
			return fmt.Errorf("file %q not found, check the path and try again", input)
		}
		return err
	}

	fmt.Fprint(out, renderReport(rep, settings.Canvas()))

	if opts.preview {
		pngPath := previewPath(outPath)
		img, err := preview.Render(segs, settings.Canvas(), preview.DefaultPixelsPerMM)
		if err != nil {
			return fmt.Errorf("render preview: %w", err)
		}
		if err := preview.WritePNG(pngPath, img); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		logger.Info("preview written", "path", pngPath, "segments", len(segs))
	}

	fmt.Fprintln(out, successStyle.Render("✓ Converted: "+outPath))
	return nil
}

func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "pancakefix",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func previewPath(outPath string) string {
	return strings.TrimSuffix(outPath, filepath.Ext(outPath)) + ".png"
}

// cleanPath drops surrounding whitespace and quotes left over from pasting
// a path into a terminal.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"`)
	return strings.Trim(p, `'`)
}
