package scene

import (
	"math"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/projection"
)

// ============================================================
// Index tables
// ============================================================

// PlaneEdges: ребро i соединяет углы i и i+1.
var PlaneEdges = [4][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}

// SolidEdges — 12 ребер шестигранника.
var SolidEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Face — грань шестигранника и ось ее нормали.
type Face struct {
	Name    string
	Corners [4]int
	Normal  geom.Axis
}

// SolidFaces — грани в фиксированном порядке (индекс используется в режиме face-i).
var SolidFaces = [6]Face{
	{Name: "back", Corners: [4]int{0, 1, 2, 3}, Normal: geom.AxisZ},
	{Name: "front", Corners: [4]int{4, 5, 6, 7}, Normal: geom.AxisZ},
	{Name: "bottom", Corners: [4]int{0, 1, 5, 4}, Normal: geom.AxisY},
	{Name: "top", Corners: [4]int{3, 2, 6, 7}, Normal: geom.AxisY},
	{Name: "right", Corners: [4]int{1, 2, 6, 5}, Normal: geom.AxisX},
	{Name: "left", Corners: [4]int{0, 3, 7, 4}, Normal: geom.AxisX},
}

// FacePoints возвращает 4 угла грани.
func FacePoints(s *Solid, face int) []geom.Point {
	f := SolidFaces[face]
	out := make([]geom.Point, 4)
	for i, idx := range f.Corners {
		out[i] = s.Pts[idx]
	}
	return out
}

// ============================================================
// Legacy dimension-based shapes
// ============================================================

const (
	DefaultPlaneSize = 1.0
	DefaultSolidSize = 1.0
)

// planeAxes возвращает оси длины и ширины для нормали.
func planeAxes(normal geom.Axis) (geom.Axis, geom.Axis) {
	switch normal {
	case geom.AxisX:
		return geom.AxisY, geom.AxisZ
	case geom.AxisY:
		return geom.AxisX, geom.AxisZ
	}
	return geom.AxisX, geom.AxisY
}

// LegacyPlaneCorners строит 4 угла по центру, длине, ширине и оси нормали.
func LegacyPlaneCorners(anchor geom.Point, length, width float64, normal geom.Axis) [4]geom.Point {
	if length <= 0 {
		length = DefaultPlaneSize
	}
	if width <= 0 {
		width = DefaultPlaneSize
	}
	la, wa := planeAxes(normal)
	hl, hw := length/2, width/2

	corner := func(sl, sw float64) geom.Point {
		p := anchor
		p = p.With(la, p.Get(la)+sl*hl)
		p = p.With(wa, p.Get(wa)+sw*hw)
		return p
	}
	return [4]geom.Point{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}
}

// LegacySolidVertices строит 8 вершин по центру и размерам вдоль осей.
func LegacySolidVertices(anchor geom.Point, lx, ly, lz float64) [8]geom.Point {
	if lx <= 0 {
		lx = DefaultSolidSize
	}
	if ly <= 0 {
		ly = DefaultSolidSize
	}
	if lz <= 0 {
		lz = DefaultSolidSize
	}
	hx, hy, hz := lx/2, ly/2, lz/2
	base := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	var out [8]geom.Point
	for i, b := range base {
		out[i] = anchor.Add(geom.Point{X: b[0] * hx, Y: b[1] * hy, Z: -hz})
		out[i+4] = anchor.Add(geom.Point{X: b[0] * hx, Y: b[1] * hy, Z: hz})
	}
	return out
}

// ============================================================
// Defaults for new elements
// ============================================================

const DefaultLoadAmount = 1000.0 // Н

// NewElement создает элемент с геометрией по умолчанию около anchor.
// Возвращает nil для неизвестного вида.
func NewElement(kind Kind, anchor geom.Point) Element {
	unitX := geom.Point{X: 1}
	switch kind {
	case KindJoint:
		return &Joint{Pts: [1]geom.Point{anchor}}
	case KindSupport:
		return &Support{Pts: [1]geom.Point{anchor}, Ux: true, Uy: true, Rz: true}
	case KindLoad:
		return &Load{Pts: [2]geom.Point{anchor, anchor.Add(geom.Point{Y: -1})}, Amount: DefaultLoadAmount}
	case KindMember:
		return &Member{Pts: [2]geom.Point{anchor, anchor.Add(unitX)}, Section: DefaultSection()}
	case KindCable:
		return &Cable{Pts: [2]geom.Point{anchor, anchor.Add(unitX)}, Section: DefaultSection()}
	case KindPlane:
		return &Plane{Pts: LegacyPlaneCorners(anchor, DefaultPlaneSize, DefaultPlaneSize, geom.AxisZ)}
	case KindSolid:
		return &Solid{Pts: LegacySolidVertices(anchor, DefaultSolidSize, DefaultSolidSize, DefaultSolidSize)}
	}
	return nil
}

// ============================================================
// Screen-space queries
// ============================================================

// Rect — прямоугольник в пикселях.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

func (r Rect) Contains(p geom.Vec2, margin float64) bool {
	return p.X >= r.MinX-margin && p.X <= r.MaxX+margin &&
		p.Y >= r.MinY-margin && p.Y <= r.MaxY+margin
}

// ScreenCoords проецирует набор точек в пиксели.
func ScreenCoords(vp *projection.Viewport, pts []geom.Point) []geom.Vec2 {
	out := make([]geom.Vec2, len(pts))
	for i, p := range pts {
		out[i] = vp.ToScreen(p)
	}
	return out
}

// ScreenRect — ограничивающий прямоугольник точек в пикселях.
func ScreenRect(vp *projection.Viewport, pts []geom.Point) Rect {
	r := Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, s := range ScreenCoords(vp, pts) {
		r.MinX = math.Min(r.MinX, s.X)
		r.MinY = math.Min(r.MinY, s.Y)
		r.MaxX = math.Max(r.MaxX, s.X)
		r.MaxY = math.Max(r.MaxY, s.Y)
	}
	return r
}
