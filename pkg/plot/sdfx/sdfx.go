// Package sdfx implements plot.Exporter as DXF drawings using the
// github.com/deadsy/sdfx render package.
package sdfx

import (
	"fmt"

	"github.com/chazu/lindenmayer/pkg/plot"
	"github.com/chazu/lindenmayer/pkg/turtle"
	"github.com/deadsy/sdfx/render"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ plot.Exporter = (*Exporter)(nil)

// Exporter writes one DXF line entity per segment. Coordinates stay in
// world space scaled by the viewport scale; y is not flipped since DXF is
// y-up like the turtle.
type Exporter struct{}

// New returns a DXF exporter.
func New() *Exporter { return &Exporter{} }

// Extension returns ".dxf".
func (e *Exporter) Extension() string { return ".dxf" }

// Export writes d to path.
func (e *Exporter) Export(path string, d plot.Drawing, vp plot.Viewport) error {
	scale := vp.Scale
	if scale <= 0 {
		scale = 1
	}
	dxf := render.NewDXF(path)
	for _, p := range d.Paths {
		for i := 1; i < len(p); i++ {
			dxf.Line(toVec(p[i-1], scale), toVec(p[i], scale))
		}
	}
	if err := dxf.Save(); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

func toVec(p turtle.Point, scale float64) v2.Vec {
	q := p.Scale(scale)
	return v2.Vec{X: q.X, Y: q.Y}
}
