package geom

import "math"

// ============================================================
// Screen-space helpers
// ============================================================

// Vec2 — точка или смещение в 2D (плоскость вида либо пиксели).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Mul(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Distance(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// ClosestOnSegment возвращает параметр t ∈ [0,1] и ближайшую к p точку отрезка [a,b].
// Для вырожденного отрезка возвращается a.
func ClosestOnSegment(p, a, b Vec2) (float64, Vec2) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, a
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return t, Vec2{X: a.X + t*dx, Y: a.Y + t*dy}
}

// DistanceToSegment — расстояние от p до отрезка [a,b].
func DistanceToSegment(p, a, b Vec2) float64 {
	_, closest := ClosestOnSegment(p, a, b)
	return p.Distance(closest)
}

// PointInPolygon — проверка even-odd, граница не гарантируется.
func PointInPolygon(p Vec2, poly []Vec2) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// PolygonArea — площадь многоугольника (по модулю).
func PolygonArea(poly []Vec2) float64 {
	var sum float64
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return math.Abs(sum) / 2
}

// DistanceToOutline — минимальное расстояние от p до ребер замкнутого контура.
func DistanceToOutline(p Vec2, poly []Vec2) float64 {
	best := math.MaxFloat64
	for i := range poly {
		d := DistanceToSegment(p, poly[i], poly[(i+1)%len(poly)])
		if d < best {
			best = d
		}
	}
	return best
}
