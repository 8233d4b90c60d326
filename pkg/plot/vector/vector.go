// Package vector implements plot.Exporter as SVG documents using
// github.com/ajstarks/svgo.
package vector

import (
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/chazu/lindenmayer/pkg/plot"
)

// Compile-time interface check.
var _ plot.Exporter = (*Exporter)(nil)

// Exporter renders drawings as SVG polylines, one per path.
type Exporter struct {
	Background  string
	Stroke      string
	StrokeWidth float64
	Caption     bool
}

// New returns an Exporter with black strokes of width 2 on white.
func New() *Exporter {
	return &Exporter{
		Background:  "white",
		Stroke:      "black",
		StrokeWidth: 2,
		Caption:     true,
	}
}

// Extension returns ".svg".
func (e *Exporter) Extension() string { return ".svg" }

// Export writes d to path as an SVG document.
func (e *Exporter) Export(path string, d plot.Drawing, vp plot.Viewport) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vector: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("vector: close %s: %w", path, cerr)
		}
	}()
	return e.Write(f, d, vp)
}

// Write renders d to w.
func (e *Exporter) Write(w io.Writer, d plot.Drawing, vp plot.Viewport) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(vp.Width, vp.Height)
	if d.Title != "" {
		canvas.Title(d.Title)
	}
	canvas.Rect(0, 0, vp.Width, vp.Height, "fill:"+e.Background)

	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g;stroke-linecap:round;stroke-linejoin:round",
		e.Stroke, e.StrokeWidth)
	for _, p := range d.Paths {
		if len(p) < 2 {
			continue
		}
		xs := make([]int, len(p))
		ys := make([]int, len(p))
		for i, pt := range p {
			x, y := vp.Apply(pt)
			xs[i], ys[i] = int(math.Round(x)), int(math.Round(y))
		}
		canvas.Polyline(xs, ys, style)
	}

	if e.Caption && d.Title != "" {
		canvas.Text(vp.Width/2, 24, d.Title,
			"text-anchor:middle;font-family:monospace;font-size:13px;fill:"+e.Stroke)
	}
	canvas.End()

	if ew.err != nil {
		return fmt.Errorf("vector: write: %w", ew.err)
	}
	return nil
}

// errWriter records the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
