package render

import (
	"math"

	"github.com/starford/corkboard/internal/models"
	"github.com/starford/corkboard/internal/viewport"
)

// World-space layout constants.
const (
	GridSize    = 50.0
	NoteWidth   = 150.0
	NoteHeight  = 100.0
	TextPadding = 10.0
	FontSize    = 14.0
	LineHeight  = 18.0

	// TextMinZoom is the zoom at or below which note text is not drawn.
	TextMinZoom = 0.5

	noteInset = 2.0
)

// Colors used by the renderer.
const (
	Background = "#ffffff"
	GridColor  = "rgba(0,0,0,0.05)"
	ShadeColor = "rgba(0,0,0,0.1)"
	TextColor  = "#333333"
)

// Palette is cycled through by note render order.
var Palette = [...]string{"#ffeb3b", "#ff9800", "#4caf50", "#2196f3", "#e91e63"}

// NoteColor returns the card color for the note at index in render order.
func NoteColor(index int) string {
	return Palette[index%len(Palette)]
}

// Renderer draws the board. The zero value uses DefaultMeasurer.
type Renderer struct {
	Measurer Measurer
}

// Render clears s and draws the grid and every visible note.
func (r *Renderer) Render(s Surface, vp *viewport.Viewport, width, height float64, notes []models.Note) {
	s.Clear(width, height)
	r.drawGrid(s, vp, width, height)

	visible := vp.VisibleRect(width, height)
	for i, n := range notes {
		if !intersects(visible, n) {
			continue
		}
		r.drawNote(s, vp, n, i)
	}
}

// maxGridLines caps the lines per axis. A 4096 pixel side at minimum zoom
// needs about 820.
const maxGridLines = 10000

// GridLines returns the world x and y positions of the grid lines covering
// the visible area, snapped outward to whole cells. An axis too large or too
// far out for float precision to resolve single cells yields no lines.
func GridLines(vp *viewport.Viewport, width, height float64) (xs, ys []float64) {
	vis := vp.VisibleRect(width, height)
	return gridAxis(vis.Min.X, vis.Max.X), gridAxis(vis.Min.Y, vis.Max.Y)
}

func gridAxis(lo, hi float64) []float64 {
	first := math.Floor(lo / GridSize)
	last := math.Ceil(hi / GridSize)
	span := last - first
	if math.IsNaN(span) || math.IsInf(span, 0) || span < 0 || span >= maxGridLines {
		return nil
	}
	// Cell indices past 2^53 cannot be stepped one at a time.
	if math.Abs(first) > 1<<53 || math.Abs(last) > 1<<53 {
		return nil
	}
	n := int(span) + 1
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, (first+float64(i))*GridSize)
	}
	return out
}

// TextLines returns the wrapped lines for content, or nil when zoom hides text.
func (r *Renderer) TextLines(content string, zoom float64) []string {
	if zoom <= TextMinZoom {
		return nil
	}
	return Wrap(content, NoteWidth-2*TextPadding, FontSize, r.measurer())
}

func (r *Renderer) drawGrid(s Surface, vp *viewport.Viewport, width, height float64) {
	xs, ys := GridLines(vp, width, height)
	if len(xs) == 0 || len(ys) == 0 {
		return
	}
	top, bottom := ys[0], ys[len(ys)-1]
	left, right := xs[0], xs[len(xs)-1]

	for _, x := range xs {
		a := vp.WorldToScreen(x, top)
		b := vp.WorldToScreen(x, bottom)
		s.Line(a.X, a.Y, b.X, b.Y, 1, GridColor)
	}
	for _, y := range ys {
		a := vp.WorldToScreen(left, y)
		b := vp.WorldToScreen(right, y)
		s.Line(a.X, a.Y, b.X, b.Y, 1, GridColor)
	}
}

func (r *Renderer) drawNote(s Surface, vp *viewport.Viewport, n models.Note, index int) {
	z := vp.Zoom()
	tl := vp.WorldToScreen(n.X-NoteWidth/2, n.Y-NoteHeight/2)
	s.Rect(tl.X, tl.Y, NoteWidth*z, NoteHeight*z, NoteColor(index))

	in := vp.WorldToScreen(n.X-NoteWidth/2+noteInset, n.Y-NoteHeight/2+noteInset)
	s.Rect(in.X, in.Y, (NoteWidth-2*noteInset)*z, (NoteHeight-2*noteInset)*z, ShadeColor)

	lines := r.TextLines(n.Content, z)
	if len(lines) == 0 {
		return
	}
	startY := n.Y - float64(len(lines)-1)*LineHeight/2
	for i, line := range lines {
		p := vp.WorldToScreen(n.X, startY+float64(i)*LineHeight)
		s.Text(p.X, p.Y, line, FontSize*z, TextColor)
	}
}

func (r *Renderer) measurer() Measurer {
	if r.Measurer == nil {
		return DefaultMeasurer
	}
	return r.Measurer
}

func intersects(vis viewport.Rect, n models.Note) bool {
	return n.X+NoteWidth/2 >= vis.Min.X && n.X-NoteWidth/2 <= vis.Max.X &&
		n.Y+NoteHeight/2 >= vis.Min.Y && n.Y-NoteHeight/2 <= vis.Max.Y
}
