package gcode

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const outputSuffix = "_fixed"

// Report summarises one conversion.
type Report struct {
	InputPath  string
	OutputPath string
	Source     Bounds
	Transform  Transform
	Stats      Stats
	Result     Bounds
}

// OutputPath returns the sibling path with "_fixed" inserted before the
// extension.
func OutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + outputSuffix + ext
}

// Convert runs scan, transform, rewrite and verify over files. The input is
// read twice and the output once more after writing.
func Convert(inPath, outPath string, c Canvas, v Valve, opts ...RewriteOption) (Report, error) {
	const op = "gcode.convert"

	rep := Report{InputPath: inPath, OutputPath: outPath}

	if _, err := os.Stat(inPath); err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindMissingInput
		}
		return rep, &OpError{Op: op, Kind: kind, Path: inPath, Err: err}
	}
	if filepath.Clean(inPath) == filepath.Clean(outPath) {
		return rep, &OpError{Op: op, Kind: KindInvalidConfig, Path: outPath, Err: ErrSamePath}
	}

	src, err := scanFile(inPath, Scan)
	if err != nil {
		return rep, &OpError{Op: op, Kind: KindIO, Path: inPath, Err: err}
	}
	rep.Source = src

	t, err := DeriveTransform(src, c)
	if err != nil {
		var oe *OpError
		if errors.As(err, &oe) && oe.Path == "" {
			oe.Path = inPath
		}
		return rep, err
	}
	rep.Transform = t

	stats, err := rewriteFile(inPath, outPath, t, v, opts...)
	rep.Stats = stats
	if err != nil {
		return rep, &OpError{Op: op, Kind: KindIO, Path: outPath, Err: err}
	}

	res, err := scanFile(outPath, Verify)
	if err != nil {
		return rep, &OpError{Op: op, Kind: KindIO, Path: outPath, Err: err}
	}
	rep.Result = res

	return rep, nil
}

func scanFile(path string, scan func(io.Reader) (Bounds, error)) (Bounds, error) {
	f, err := os.Open(path)
	if err != nil {
		return NewBounds(), err
	}
	defer f.Close()

	return scan(f)
}

func rewriteFile(inPath, outPath string, t Transform, v Valve, opts ...RewriteOption) (stats Stats, err error) {
	in, err := os.Open(inPath)
	if err != nil {
		return stats, err
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return stats, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Rewrite(bufio.NewReader(in), out, t, v, opts...)
}
