// Package plot renders detectors and self samples as a PNG scatter over the
// normalized unit square.
package plot

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/hed1ad/negsel/pkg/detectors"
)

var (
	// DetectorColor marks detectors (non-self).
	DetectorColor = colorful.MustParseHex("#ff0000")
	// SelfColor marks normalized self samples.
	SelfColor = colorful.MustParseHex("#00ff00")

	axisColor  = colorful.MustParseHex("#909090")
	background = colorful.MustParseHex("#ffffff")
)

// Series is a set of points drawn with one color.
type Series struct {
	Points []detectors.Point
	Color  colorful.Color
	// Radius of each dot in pixels.
	Radius int
}

// Canvas describes the output raster. The unit square is mapped onto the
// area inside Margin, with y growing upwards.
type Canvas struct {
	Width  int
	Height int
	Margin int
}

// DefaultCanvas returns a 1280x720 canvas with a 10 pixel margin.
func DefaultCanvas() Canvas {
	return Canvas{Width: 1280, Height: 720, Margin: 10}
}

// Render draws the series in order, later series on top.
func (c Canvas) Render(w io.Writer, series ...Series) error {
	if c.Width <= 2*c.Margin || c.Height <= 2*c.Margin {
		return errors.Errorf("canvas %dx%d too small for margin %d", c.Width, c.Height, c.Margin)
	}

	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	fill(img, img.Bounds(), background)
	c.drawAxes(img)

	for _, s := range series {
		r := s.Radius
		if r <= 0 {
			r = 2
		}
		for _, p := range s.Points {
			x, y := c.pixel(p)
			dot(img, x, y, r, s.Color)
		}
	}

	return png.Encode(w, img)
}

// pixel maps a unit-square point to image coordinates.
func (c Canvas) pixel(p detectors.Point) (int, int) {
	plotW := float64(c.Width - 2*c.Margin - 1)
	plotH := float64(c.Height - 2*c.Margin - 1)

	x := c.Margin + int(p[0]*plotW+0.5)
	y := c.Height - 1 - c.Margin - int(p[1]*plotH+0.5)
	return x, y
}

func (c Canvas) drawAxes(img *image.RGBA) {
	left, bottom := c.pixel(detectors.Point{0, 0})
	right, top := c.pixel(detectors.Point{1, 1})

	fill(img, image.Rect(left, bottom, right+1, bottom+1), axisColor)
	fill(img, image.Rect(left, top, left+1, bottom+1), axisColor)
}

func fill(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

// dot draws a filled circle; pixels outside the image are clipped.
func dot(img *image.RGBA, cx, cy, r int, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				img.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// Model draws the detector set in red over the normalized self samples in
// green, matching the layout of the classifier's reference plot.
func Model(w io.Writer, dets []detectors.Point, self []detectors.Point, bounds detectors.Bounds) error {
	normalized := make([]detectors.Point, len(self))
	for i, p := range self {
		normalized[i] = bounds.Normalize(p)
	}

	return DefaultCanvas().Render(w,
		Series{Points: dets, Color: DetectorColor, Radius: 2},
		Series{Points: normalized, Color: SelfColor, Radius: 2},
	)
}

// ModelFile is Model writing to path.
func ModelFile(path string, dets []detectors.Point, self []detectors.Point, bounds detectors.Bounds) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Model(f, dets, self, bounds); err != nil {
		f.Close()
		return errors.Wrapf(err, "render %s", path)
	}
	return f.Close()
}
