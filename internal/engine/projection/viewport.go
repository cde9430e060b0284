package projection

import "frame-sketch/internal/engine/geom"

// ============================================================
// Camera & viewport
// ============================================================

const (
	DefaultZoom = 100.0 // пикселей на метр
	minZoom     = 1e-3
)

// Camera — масштаб и панорамирование, применяются после проекции.
type Camera struct {
	Zoom float64   `json:"zoom"`
	Pan  geom.Vec2 `json:"pan"`
}

func NewCamera() Camera {
	return Camera{Zoom: DefaultZoom}
}

// Viewport объединяет состояние вида и камеру.
type Viewport struct {
	View   *ViewState
	Camera Camera
}

func NewViewport() *Viewport {
	return &Viewport{View: NewViewState(), Camera: NewCamera()}
}

func (vp *Viewport) zoom() float64 {
	if vp.Camera.Zoom < minZoom {
		return minZoom
	}
	return vp.Camera.Zoom
}

// ToScreen проецирует мировую точку в пиксели.
func (vp *Viewport) ToScreen(p geom.Point) geom.Vec2 {
	return vp.View.Project(p).Mul(vp.zoom()).Add(vp.Camera.Pan)
}

// ScreenDeltaToWorld переводит смещение указателя в мировое смещение.
func (vp *Viewport) ScreenDeltaToWorld(dx, dy float64) geom.Point {
	return vp.View.Unproject(geom.Vec2{X: dx, Y: dy}.Mul(1 / vp.zoom()))
}

// ScreenToWorld — точка на плоскости вида (глубина 0) под пикселем s.
func (vp *Viewport) ScreenToWorld(s geom.Vec2) geom.Point {
	d := s.Sub(vp.Camera.Pan)
	return vp.ScreenDeltaToWorld(d.X, d.Y)
}

func (vp *Viewport) Depth(p geom.Point) float64 {
	return vp.View.Depth(p)
}

// SetZoom меняет масштаб, сохраняя под курсором ту же точку плоскости вида.
func (vp *Viewport) SetZoom(zoom float64, anchor geom.Vec2) {
	if zoom < minZoom {
		zoom = minZoom
	}
	k := zoom / vp.zoom()
	vp.Camera.Pan = anchor.Sub(anchor.Sub(vp.Camera.Pan).Mul(k))
	vp.Camera.Zoom = zoom
}
