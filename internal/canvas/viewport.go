package canvas

import "blockstudio/internal/domain"

// Zoom bounds and the grid unit shared by the whole editor.
const (
	ZoomMin  = 0.25
	ZoomMax  = 4.0
	GridUnit = 20.0
)

// Point is a coordinate in either screen or canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Viewport maps between screen space (rendered pixels) and canvas space
// (stored block positions) under pan and zoom.
type Viewport struct {
	zoom float64
	panX float64
	panY float64
}

// NewViewport returns a viewport at the identity transform.
func NewViewport() *Viewport {
	return &Viewport{zoom: 1}
}

// State returns the current pan/zoom as a value snapshot.
func (v *Viewport) State() domain.ViewportState {
	return domain.ViewportState{Zoom: v.zoom, PanX: v.panX, PanY: v.panY}
}

// SetState replaces the transform, clamping zoom into bounds.
func (v *Viewport) SetState(s domain.ViewportState) {
	v.zoom = clampZoom(s.Zoom)
	v.panX = s.PanX
	v.panY = s.PanY
}

// ScreenToCanvas converts a screen point into canvas space.
func (v *Viewport) ScreenToCanvas(p Point) Point {
	return Point{
		X: (p.X - v.panX) / v.zoom,
		Y: (p.Y - v.panY) / v.zoom,
	}
}

// CanvasToScreen is the inverse of ScreenToCanvas.
func (v *Viewport) CanvasToScreen(p Point) Point {
	return Point{
		X: p.X*v.zoom + v.panX,
		Y: p.Y*v.zoom + v.panY,
	}
}

// ZoomAt multiplies the zoom by factor, clamped into bounds, and adjusts
// pan so the canvas point under anchor (a screen point) stays fixed.
func (v *Viewport) ZoomAt(factor float64, anchor Point) {
	newZoom := clampZoom(v.zoom * factor)
	if newZoom == v.zoom {
		return
	}
	under := v.ScreenToCanvas(anchor)
	v.zoom = newZoom
	// Solve pan so that canvasToScreen(under) == anchor again.
	v.panX = anchor.X - under.X*v.zoom
	v.panY = anchor.Y - under.Y*v.zoom
}

// PanBy translates the view unconditionally.
func (v *Viewport) PanBy(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

func clampZoom(z float64) float64 {
	switch {
	case z < ZoomMin:
		return ZoomMin
	case z > ZoomMax:
		return ZoomMax
	default:
		return z
	}
}
