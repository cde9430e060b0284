package geom

import "math"

// ============================================================
// World points
// ============================================================

// Point — точка в мировых координатах (метры).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Axis — индекс мировой оси.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y, Z: p.Z - o.Z}
}

func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s, Z: p.Z * s}
}

func (p Point) Cross(o Point) Point {
	return Point{
		X: p.Y*o.Z - p.Z*o.Y,
		Y: p.Z*o.X - p.X*o.Z,
		Z: p.X*o.Y - p.Y*o.X,
	}
}

func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

func (p Point) Distance(o Point) float64 {
	return p.Sub(o).Length()
}

// Get возвращает компоненту по оси.
func (p Point) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	}
	return p.Z
}

// With возвращает копию точки с замененной компонентой.
func (p Point) With(a Axis, v float64) Point {
	switch a {
	case AxisX:
		p.X = v
	case AxisY:
		p.Y = v
	default:
		p.Z = v
	}
	return p
}

// Only оставляет в векторе только перечисленные компоненты.
func (p Point) Only(axes ...Axis) Point {
	var out Point
	for _, a := range axes {
		out = out.With(a, p.Get(a))
	}
	return out
}

// DominantAxis возвращает ось с наибольшей по модулю компонентой (при равенстве — первую).
func (p Point) DominantAxis() Axis {
	best := AxisX
	for _, a := range []Axis{AxisY, AxisZ} {
		if math.Abs(p.Get(a)) > math.Abs(p.Get(best)) {
			best = a
		}
	}
	return best
}

func Midpoint(a, b Point) Point {
	return a.Add(b).Mul(0.5)
}

// Centroid — среднее арифметическое точек.
func Centroid(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}

// Translate сдвигает все точки на offset (in place).
func Translate(pts []Point, offset Point) {
	for i := range pts {
		pts[i] = pts[i].Add(offset)
	}
}
