// Package render draws the board grid and note cards onto a Surface.
package render

// Surface is a screen-space drawing target. Coordinates are pixels.
type Surface interface {
	Clear(width, height float64)
	Line(x1, y1, x2, y2, strokeWidth float64, color string)
	Rect(x, y, w, h float64, color string)
	Text(x, y float64, s string, size float64, color string)
}

// Measurer reports the advance width of s at the given font size.
type Measurer interface {
	Measure(s string, size float64) float64
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(s string, size float64) float64

func (f MeasureFunc) Measure(s string, size float64) float64 { return f(s, size) }
