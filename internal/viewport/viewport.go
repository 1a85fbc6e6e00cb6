// Package viewport maps between screen pixels and world coordinates on an
// unbounded, zoomable canvas.
//
// The transform is screen = (world + pan) * zoom. Pan is expressed in world
// units, so dragging converts screen deltas through the current zoom.
package viewport

import "math"

const (
	MinZoom = 0.1
	MaxZoom = 5.0

	// StepFactor is applied by ZoomIn and ZoomOut.
	StepFactor = 1.2

	// MaxPan bounds externally supplied pan offsets, in world units.
	MaxPan = 1e9

	wheelIn  = 1.1
	wheelOut = 0.9
)

// Point is a 2D coordinate in either space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

// Viewport holds zoom and pan. The zero value is not ready for use; call New.
type Viewport struct {
	zoom       float64
	panX, panY float64
}

// New returns a viewport at zoom 1 with no pan.
func New() *Viewport {
	return &Viewport{zoom: 1}
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Offset returns the current pan offset in world units.
func (v *Viewport) Offset() (float64, float64) { return v.panX, v.panY }

// Set replaces the state, clamping zoom. Used when restoring a view from
// request parameters.
func (v *Viewport) Set(zoom, panX, panY float64) {
	if math.IsNaN(zoom) || zoom == 0 {
		zoom = 1
	}
	v.zoom = clamp(zoom)
	v.panX, v.panY = panX, panY
}

// ScreenToWorld converts a screen pixel to world coordinates.
func (v *Viewport) ScreenToWorld(sx, sy float64) Point {
	return Point{X: sx/v.zoom - v.panX, Y: sy/v.zoom - v.panY}
}

// WorldToScreen converts world coordinates to a screen pixel.
func (v *Viewport) WorldToScreen(wx, wy float64) Point {
	return Point{X: (wx + v.panX) * v.zoom, Y: (wy + v.panY) * v.zoom}
}

// ZoomIn multiplies zoom by StepFactor, clamped.
func (v *Viewport) ZoomIn() {
	v.zoom = clamp(v.zoom * StepFactor)
}

// ZoomOut divides zoom by StepFactor, clamped.
func (v *Viewport) ZoomOut() {
	v.zoom = clamp(v.zoom / StepFactor)
}

// ZoomAtCursor scales zoom by factor while keeping the world point under
// (sx, sy) on the same screen pixel. It reports whether zoom changed.
func (v *Viewport) ZoomAtCursor(sx, sy, factor float64) bool {
	world := v.ScreenToWorld(sx, sy)
	next := clamp(v.zoom * factor)
	if math.IsNaN(next) || next == v.zoom {
		return false
	}
	v.panX = sx/next - world.X
	v.panY = sy/next - world.Y
	v.zoom = next
	return true
}

// Wheel zooms around the cursor for one wheel notch; positive deltaY zooms out.
func (v *Viewport) Wheel(sx, sy, deltaY float64) bool {
	factor := wheelIn
	if deltaY > 0 {
		factor = wheelOut
	}
	return v.ZoomAtCursor(sx, sy, factor)
}

// PanBy shifts the view by a screen-space delta.
func (v *Viewport) PanBy(dsx, dsy float64) {
	v.panX += dsx / v.zoom
	v.panY += dsy / v.zoom
}

// Reset restores zoom 1 and zero pan.
func (v *Viewport) Reset() {
	v.zoom = 1
	v.panX, v.panY = 0, 0
}

// VisibleRect returns the world rectangle shown on a width x height screen.
func (v *Viewport) VisibleRect(width, height float64) Rect {
	return Rect{Min: v.ScreenToWorld(0, 0), Max: v.ScreenToWorld(width, height)}
}

// ZoomPercent returns zoom as a rounded percentage.
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.zoom * 100))
}

func clamp(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
