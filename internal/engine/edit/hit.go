package edit

import (
	"fmt"
	"math"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/projection"
	"frame-sketch/internal/engine/scene"
)

// ============================================================
// Drag modes & hit-testing
// ============================================================

// HitTolerance — радиус захвата концов и ребер в пикселях.
const HitTolerance = 8.0

// degenerateArea — грань с меньшей площадью на экране считается видимой "с ребра".
const degenerateArea = 1.0

type ModeKind string

const (
	DragBody  ModeKind = "body"
	DragStart ModeKind = "start"
	DragEnd   ModeKind = "end"
	DragEdge  ModeKind = "edge"
	DragFace  ModeKind = "face"
)

// DragMode — что именно тянет пользователь.
type DragMode struct {
	Kind  ModeKind
	Index int // для edge/face
}

func (m DragMode) String() string {
	if m.Kind == DragEdge || m.Kind == DragFace {
		return fmt.Sprintf("%s-%d", m.Kind, m.Index)
	}
	return string(m.Kind)
}

// Hit — результат попадания указателя в элемент.
type Hit struct {
	Element scene.Element
	Mode    DragMode
}

// HitTest ищет верхний (последний добавленный) элемент под указателем.
func HitTest(s *scene.Scene, vp *projection.Viewport, at geom.Vec2) (Hit, bool) {
	elements := s.Elements()
	for i := len(elements) - 1; i >= 0; i-- {
		if mode, ok := hitElement(elements[i], vp, at); ok {
			return Hit{Element: elements[i], Mode: liftDepthOnly(elements[i], mode, vp)}, true
		}
	}
	return Hit{}, false
}

// liftDepthOnly: ребро или грань, сдвигаемые только вдоль оси глубины вида,
// с экрана не двигаются — такой захват становится перемещением целиком.
func liftDepthOnly(e scene.Element, mode DragMode, vp *projection.Viewport) DragMode {
	axes := constraintAxes(e, mode)
	if len(axes) == 1 && axes[0] == vp.View.AxisInfo().DepthAxis() {
		return DragMode{Kind: DragBody}
	}
	return mode
}

func hitElement(e scene.Element, vp *projection.Viewport, at geom.Vec2) (DragMode, bool) {
	pts := scene.ScreenCoords(vp, e.Points())

	switch el := e.(type) {
	case *scene.Joint, *scene.Support:
		if at.Distance(pts[0]) <= HitTolerance {
			return DragMode{Kind: DragBody}, true
		}
	case *scene.Load, *scene.Member, *scene.Cable:
		switch {
		case at.Distance(pts[0]) <= HitTolerance:
			return DragMode{Kind: DragStart}, true
		case at.Distance(pts[1]) <= HitTolerance:
			return DragMode{Kind: DragEnd}, true
		case geom.DistanceToSegment(at, pts[0], pts[1]) <= HitTolerance:
			return DragMode{Kind: DragBody}, true
		}
	case *scene.Plane:
		for i, edge := range scene.PlaneEdges {
			if geom.DistanceToSegment(at, pts[edge[0]], pts[edge[1]]) <= HitTolerance {
				return DragMode{Kind: DragEdge, Index: i}, true
			}
		}
		if geom.PointInPolygon(at, pts) {
			return DragMode{Kind: DragBody}, true
		}
	case *scene.Solid:
		return hitSolid(el, vp, pts, at)
	}
	return DragMode{}, false
}

// hitSolid: грань берется, когда указатель в пределах HitTolerance от ее контура
// (сначала грани, видимые с ребра, затем ближайшая к контуру) или внутри ее проекции
// (ближайшая к зрителю). Иначе промах.
func hitSolid(s *scene.Solid, vp *projection.Viewport, pts []geom.Vec2, at geom.Vec2) (DragMode, bool) {
	faceIdx := -1
	faceDist := math.MaxFloat64
	edgeOn := false

	insideIdx := -1
	insideDepth := math.MaxFloat64

	for i, f := range scene.SolidFaces {
		poly := []geom.Vec2{pts[f.Corners[0]], pts[f.Corners[1]], pts[f.Corners[2]], pts[f.Corners[3]]}
		isEdgeOn := geom.PolygonArea(poly) < degenerateArea
		if !isEdgeOn && geom.PointInPolygon(at, poly) {
			if depth := vp.Depth(geom.Centroid(scene.FacePoints(s, i))); depth < insideDepth {
				insideIdx, insideDepth = i, depth
			}
		}

		d := geom.DistanceToOutline(at, poly)
		if d > HitTolerance {
			continue
		}
		switch {
		case isEdgeOn && !edgeOn:
			faceIdx, faceDist, edgeOn = i, d, true
		case isEdgeOn == edgeOn && d < faceDist:
			faceIdx, faceDist = i, d
		}
	}

	switch {
	case faceIdx >= 0:
		return DragMode{Kind: DragFace, Index: faceIdx}, true
	case insideIdx >= 0:
		return DragMode{Kind: DragFace, Index: insideIdx}, true
	}
	return DragMode{}, false
}
