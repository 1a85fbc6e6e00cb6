package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/viewport"
)

// SVGSurface renders to an SVG document. Coordinates are rounded to whole
// pixels. Call End to close the document.
type SVGSurface struct {
	canvas  *svg.SVG
	started bool
}

// NewSVGSurface writes SVG markup to w.
func NewSVGSurface(w io.Writer) *SVGSurface {
	return &SVGSurface{canvas: svg.New(w)}
}

func (s *SVGSurface) Clear(width, height float64) {
	if !s.started {
		s.canvas.Start(px(width), px(height))
		s.started = true
	}
	s.canvas.Rect(0, 0, px(width), px(height), "fill:"+Background)
}

func (s *SVGSurface) Line(x1, y1, x2, y2, strokeWidth float64, color string) {
	s.canvas.Line(px(x1), px(y1), px(x2), px(y2), fmt.Sprintf("stroke:%s;stroke-width:%g", color, strokeWidth))
}

func (s *SVGSurface) Rect(x, y, w, h float64, color string) {
	s.canvas.Rect(px(x), px(y), px(w), px(h), "fill:"+color)
}

func (s *SVGSurface) Text(x, y float64, text string, size float64, color string) {
	s.canvas.Text(px(x), px(y), text,
		fmt.Sprintf("fill:%s;font-family:Arial,sans-serif;font-size:%.2fpx;text-anchor:middle", color, size))
}

// End closes the SVG document.
func (s *SVGSurface) End() {
	if s.started {
		s.canvas.End()
	}
}

// RenderSVG renders a complete SVG document for the given view.
func RenderSVG(r *Renderer, vp *viewport.Viewport, width, height float64, notes []models.Note) []byte {
	var buf bytes.Buffer
	s := NewSVGSurface(&buf)
	r.Render(s, vp, width, height, notes)
	s.End()
	return buf.Bytes()
}

func px(f float64) int {
	return int(math.Round(f))
}
