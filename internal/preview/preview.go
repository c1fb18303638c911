// Package preview draws a converted toolpath onto its canvas.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"pancakefix/internal/gcode"
)

const (
	DefaultPixelsPerMM = 4.0

	// MaxSide caps the longer image side in pixels.
	MaxSide = 4096
)

// SVG returns an SVG document of the toolpath in canvas millimetres.
// Moves with the valve open are drawn black, travel moves light grey.
func SVG(segs []gcode.Segment, c gcode.Canvas) string {
	var sb strings.Builder

	w, h := c.MaxX, c.MaxY
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="0 0 %g %g">`+"\n", w, h, w, h))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%g" height="%g" fill="white" stroke="#888888" stroke-width="0.5"/>`+"\n", w, h))
	sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" fill="none" stroke="#cccccc" stroke-width="0.3" stroke-dasharray="2,2"/>`+"\n",
		gcode.Margin, gcode.Margin, w-2*gcode.Margin, h-2*gcode.Margin))

	for _, s := range segs {
		x1, y1 := toSVG(s.FromX, s.FromY, c)
		x2, y2 := toSVG(s.ToX, s.ToY, c)
		if s.Open {
			sb.WriteString(fmt.Sprintf(`<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="black" stroke-width="1" stroke-linecap="round"/>`+"\n", x1, y1, x2, y2))
		} else {
			sb.WriteString(fmt.Sprintf(`<line x1="%.3f" y1="%.3f" x2="%.3f" y2="%.3f" stroke="#d0d0d0" stroke-width="0.3"/>`+"\n", x1, y1, x2, y2))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// machine Y grows upwards, SVG Y downwards
func toSVG(x, y float64, c gcode.Canvas) (float64, float64) {
	return x - c.HomeX, c.MaxY - (y - c.HomeY)
}

// Render rasterizes the toolpath at pxPerMM pixels per millimetre. The
// resolution is lowered when the longer side would exceed MaxSide.
func Render(segs []gcode.Segment, c gcode.Canvas, pxPerMM float64) (*image.RGBA, error) {
	if !(pxPerMM > 0) || math.IsInf(pxPerMM, 1) {
		pxPerMM = DefaultPixelsPerMM
	}
	if !(c.MaxX > 0 && c.MaxY > 0) || math.IsInf(c.MaxX, 0) || math.IsInf(c.MaxY, 0) {
		return nil, fmt.Errorf("preview: empty canvas %gx%g", c.MaxX, c.MaxY)
	}
	if long := math.Max(c.MaxX, c.MaxY) * pxPerMM; long > MaxSide {
		pxPerMM = MaxSide / math.Max(c.MaxX, c.MaxY)
	}

	width, height := side(c.MaxX*pxPerMM), side(c.MaxY*pxPerMM)

	svgIcon, err := oksvg.ReadIconStream(bytes.NewReader([]byte(SVG(segs, c))))
	if err != nil {
		return nil, err
	}
	svgIcon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)

	svgIcon.Draw(raster, 1.0)
	return img, nil
}

func side(px float64) int {
	return min(max(int(math.Round(px)), 1), MaxSide)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}
