package sdfx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/lindenmayer/pkg/plot"
	"github.com/chazu/lindenmayer/pkg/turtle"
)

func TestExportWritesDXF(t *testing.T) {
	e := New()
	path := filepath.Join(t.TempDir(), "tree"+e.Extension())
	d := plot.Drawing{Paths: turtle.Paths{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 2}},
		{{X: 0, Y: 1}}, // single point emits nothing
	}}
	if err := e.Export(path, d, plot.Centered(100, 100, 10)); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "LINE") {
		t.Error("expected LINE entities in output")
	}
}

func TestExportEmptyDrawing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dxf")
	if err := New().Export(path, plot.Drawing{}, plot.Viewport{}); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file: %v", err)
	}
}

func TestToVecScales(t *testing.T) {
	v := toVec(turtle.Point{X: 1.5, Y: -2}, 4)
	if v.X != 6 || v.Y != -8 {
		t.Errorf("toVec = (%g,%g), want (6,-8)", v.X, v.Y)
	}
}

func TestExtension(t *testing.T) {
	if got := New().Extension(); got != ".dxf" {
		t.Errorf("Extension() = %q", got)
	}
}
