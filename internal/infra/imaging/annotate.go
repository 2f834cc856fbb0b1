// Package imaging decodes downloaded imagery and draws markers on it.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	domain "github.com/bryanwahyu/pothole-analyzer/internal/domain/analysis"
)

// Marker describes the dot drawn on an annotated image.
type Marker struct {
	Radius int
	Color  color.RGBA
	Label  string // empty = no label
}

// DefaultMarker is a bright red dot labelled "1".
func DefaultMarker() Marker {
	return Marker{Radius: 6, Color: color.RGBA{R: 255, A: 255}, Label: "1"}
}

// labelPad is the padding around the label text, in pixels.
const labelPad = 2

// Canvas implements domain.Canvas on local files.
type Canvas struct {
	Marker Marker
}

func NewCanvas() *Canvas {
	return &Canvas{Marker: DefaultMarker()}
}

// Load decodes a JPEG or PNG file.
func (c *Canvas) Load(path string) (image.Image, error) {
	return Load(path)
}

// Annotate draws the marker on a copy of src and saves it as PNG at dst.
func (c *Canvas) Annotate(src image.Image, at domain.PixelPoint, dst string) (image.Image, error) {
	out := AnnotatePoint(src, image.Pt(at.X, at.Y), c.Marker)
	if err := SavePNG(dst, out); err != nil {
		return nil, err
	}
	return out, nil
}

func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// AnnotatePoint returns a copy of src with a filled circle at p and, when
// m.Label is set, the label in a translucent white box right of the circle.
func AnnotatePoint(src image.Image, p image.Point, m Marker) *image.RGBA {
	b := src.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, src, b.Min, draw.Src)

	r := m.Radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			q := image.Pt(p.X+dx, p.Y+dy)
			if q.In(b) {
				out.SetRGBA(q.X, q.Y, m.Color)
			}
		}
	}

	if m.Label == "" {
		return out
	}

	face := basicfont.Face7x13
	w := font.MeasureString(face, m.Label).Ceil()
	h := face.Metrics().Ascent.Ceil()
	box := image.Rect(
		p.X+r+labelPad,
		p.Y-h/2-labelPad,
		p.X+r+labelPad+w+2*labelPad,
		p.Y+h/2+labelPad,
	)
	draw.Draw(out, box, image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 200}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(m.Color),
		Face: face,
		Dot:  fixed.P(box.Min.X+labelPad, box.Min.Y+labelPad+h),
	}
	d.DrawString(m.Label)
	return out
}

func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
