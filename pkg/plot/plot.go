// Package plot defines the boundary between generated paths and the
// backends that draw them. Implementations (raster, vector, sdfx) write
// one file per Drawing behind the Exporter interface, so formats can be
// swapped without touching the pipeline.
package plot

import (
	"math"

	"github.com/chazu/lindenmayer/pkg/turtle"
)

// DefaultMargin is the blank border Fit leaves around a drawing, in
// device units.
const DefaultMargin = 48

// Drawing is what an exporter renders: a caption and world-space paths.
// The caption is conventionally the rule string.
type Drawing struct {
	Title string
	Paths turtle.Paths
}

// Exporter writes a Drawing to a file.
type Exporter interface {
	// Export renders d through vp and writes it to path.
	Export(path string, d Drawing, vp Viewport) error

	// Extension returns the file extension including the dot, e.g. ".png".
	Extension() string
}

// Viewport maps world coordinates (y up) onto a device surface (y down).
type Viewport struct {
	Width   int
	Height  int
	Scale   float64 // device units per world unit
	OriginX float64 // device position of the world origin
	OriginY float64
}

// Centered places the world origin at the centre of a w×h surface.
func Centered(w, h int, scale float64) Viewport {
	return Viewport{
		Width:   w,
		Height:  h,
		Scale:   scale,
		OriginX: float64(w) / 2,
		OriginY: float64(h) / 2,
	}
}

// Fit chooses a scale and origin so that b fills a w×h surface inside
// margin. Degenerate boxes keep a scale of 1 and are centred.
func Fit(b turtle.Bounds, w, h int, margin float64) Viewport {
	vp := Centered(w, h, 1)
	if b.Empty() {
		return vp
	}

	bw, bh := b.Size()
	availW := math.Max(float64(w)-2*margin, 1)
	availH := math.Max(float64(h)-2*margin, 1)

	switch {
	case bw > 0 && bh > 0:
		vp.Scale = math.Min(availW/bw, availH/bh)
	case bw > 0:
		vp.Scale = availW / bw
	case bh > 0:
		vp.Scale = availH / bh
	}

	c := b.Center()
	vp.OriginX = float64(w)/2 - c.X*vp.Scale
	vp.OriginY = float64(h)/2 + c.Y*vp.Scale
	return vp
}

// Apply maps a world point to device coordinates.
func (v Viewport) Apply(p turtle.Point) (x, y float64) {
	return v.OriginX + p.X*v.Scale, v.OriginY - p.Y*v.Scale
}
