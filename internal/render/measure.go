package render

import "github.com/mattn/go-runewidth"

// Monospace measures text as a fixed-pitch font: every terminal cell is
// Advance*size wide. Wide (East Asian) glyphs take two cells.
type Monospace struct {
	Advance float64
}

// DefaultMeasurer approximates a proportional sans-serif at 0.6em per cell.
var DefaultMeasurer Measurer = Monospace{Advance: 0.6}

func (m Monospace) Measure(s string, size float64) float64 {
	return float64(runewidth.StringWidth(s)) * m.Advance * size
}
