// Package raster implements plot.Exporter as PNG images using the draw2d
// vector rasteriser. Captions are set in a fixed monospace bitmap face.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chazu/lindenmayer/pkg/plot"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Compile-time interface check.
var _ plot.Exporter = (*Exporter)(nil)

// captionBaseline is the caption's distance from the top edge in pixels.
const captionBaseline = 24

// Exporter renders drawings to PNG files.
type Exporter struct {
	Background  color.Color
	Stroke      color.Color
	StrokeWidth float64
	Caption     bool // draw Drawing.Title along the top edge
}

// New returns an Exporter with black strokes of width 2 on white.
func New() *Exporter {
	return &Exporter{
		Background:  color.White,
		Stroke:      color.Black,
		StrokeWidth: 2,
		Caption:     true,
	}
}

// Extension returns ".png".
func (e *Exporter) Extension() string { return ".png" }

// Export renders d and writes it to path as PNG.
func (e *Exporter) Export(path string, d plot.Drawing, vp plot.Viewport) error {
	img := e.Render(d, vp)
	if err := draw2dimg.SaveToPngFile(path, img); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

// Render draws d into a new image of the viewport's size.
func (e *Exporter) Render(d plot.Drawing, vp plot.Viewport) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, vp.Width, vp.Height))
	gc := draw2dimg.NewGraphicContext(img)

	gc.SetFillColor(e.Background)
	draw2dkit.Rectangle(gc, 0, 0, float64(vp.Width), float64(vp.Height))
	gc.Fill()

	gc.SetStrokeColor(e.Stroke)
	gc.SetLineWidth(e.StrokeWidth)
	gc.SetLineCap(draw2d.RoundCap)
	gc.SetLineJoin(draw2d.RoundJoin)

	for _, p := range d.Paths {
		// A single point strokes nothing.
		if len(p) < 2 {
			continue
		}
		gc.BeginPath()
		gc.MoveTo(vp.Apply(p[0]))
		for _, pt := range p[1:] {
			gc.LineTo(vp.Apply(pt))
		}
		gc.Stroke()
	}

	if e.Caption && d.Title != "" {
		e.drawCaption(img, d.Title)
	}
	return img
}

func (e *Exporter) drawCaption(img *image.RGBA, title string) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, title)
	x := (fixed.I(img.Bounds().Dx()) - width) / 2
	if x < 0 {
		x = 0
	}
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(e.Stroke),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: fixed.I(captionBaseline)},
	}
	dr.DrawString(title)
}
