package snap

import (
	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
)

// ============================================================
// Snapper
// ============================================================

// Tolerance — радиус привязки в пикселях.
const Tolerance = 10.0

// ScreenProjector переводит мировые точки в пиксели.
type ScreenProjector interface {
	ToScreen(p geom.Point) geom.Vec2
}

// Target — найденная цель привязки.
type Target struct {
	P        geom.Point `json:"point"`
	Kind     Kind       `json:"kind"`
	Element  int64      `json:"element"`
	Distance float64    `json:"distance"` // пиксели
}

// Result описывает, какие точки элемента были притянуты.
type Result struct {
	Snapped map[int]Target // индекс точки -> цель
	Offset  geom.Point     // для жесткой привязки Plane/Solid
}

func (r Result) Any() bool {
	return len(r.Snapped) > 0
}

type Snapper struct {
	scene     *scene.Scene
	proj      ScreenProjector
	tolerance float64
}

func New(s *scene.Scene, proj ScreenProjector) *Snapper {
	return &Snapper{scene: s, proj: proj, tolerance: Tolerance}
}

// Apply притягивает точки элемента к ближайшим кандидатам (in place).
// Joint/Support — одна точка, Load/Member/Cable — каждый конец отдельно,
// Plane/Solid — сдвиг всего элемента целиком.
func (s *Snapper) Apply(e scene.Element) Result {
	res := Result{Snapped: map[int]Target{}}

	points := Points(s.scene, e.ElementID())
	lines := Lines(s.scene, e.ElementID())
	pts := e.Points()

	switch e.(type) {
	case *scene.Plane, *scene.Solid:
		bestIdx := -1
		var best Target
		bestDist := s.tolerance
		for i, p := range pts {
			t, ok := s.nearest(p, points, lines, bestDist)
			if ok {
				bestIdx, best, bestDist = i, t, t.Distance
			}
		}
		if bestIdx < 0 {
			return res
		}
		res.Offset = best.P.Sub(pts[bestIdx])
		geom.Translate(pts, res.Offset)
		pts[bestIdx] = best.P
		res.Snapped[bestIdx] = best
	default:
		for i, p := range pts {
			if t, ok := s.nearest(p, points, lines, s.tolerance); ok {
				pts[i] = t.P
				res.Snapped[i] = t
			}
		}
	}
	return res
}

// Nearest ищет ближайшего кандидата для произвольной точки.
func (s *Snapper) Nearest(p geom.Point, excludeID int64) (Target, bool) {
	return s.nearest(p, Points(s.scene, excludeID), Lines(s.scene, excludeID), s.tolerance)
}

// nearest возвращает кандидата строго ближе limit.
// При равных расстояниях побеждает первый встреченный.
func (s *Snapper) nearest(p geom.Point, points []Point, lines []Line, limit float64) (Target, bool) {
	sp := s.proj.ToScreen(p)
	best := Target{Distance: limit}
	found := false

	for _, c := range points {
		d := sp.Distance(s.proj.ToScreen(c.P))
		if d < best.Distance {
			best = Target{P: c.P, Kind: c.Kind, Element: c.Element, Distance: d}
			found = true
		}
	}

	for _, l := range lines {
		a := s.proj.ToScreen(l.A)
		b := s.proj.ToScreen(l.B)
		t, closest := geom.ClosestOnSegment(sp, a, b)
		d := sp.Distance(closest)
		if d < best.Distance {
			// проекция линейна, параметр t переносится в мир
			world := l.A.Add(l.B.Sub(l.A).Mul(t))
			best = Target{P: world, Kind: KindLine, Element: l.Element, Distance: d}
			found = true
		}
	}

	return best, found
}
