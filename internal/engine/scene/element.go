package scene

import "frame-sketch/internal/engine/geom"

// ============================================================
// Element variants
// ============================================================

type Kind string

const (
	KindJoint   Kind = "joint"
	KindSupport Kind = "support"
	KindLoad    Kind = "load"
	KindMember  Kind = "member"
	KindCable   Kind = "cable"
	KindPlane   Kind = "plane"
	KindSolid   Kind = "solid"
)

// Kinds — все варианты в порядке объявления.
var Kinds = []Kind{KindJoint, KindSupport, KindLoad, KindMember, KindCable, KindPlane, KindSolid}

// Element — закрытый набор вариантов. Points возвращает срез поверх массива
// точек элемента, изменения через него видны в элементе.
type Element interface {
	ElementID() int64
	Kind() Kind
	Points() []geom.Point
	setID(id int64)
	clone() Element
}

// Section — сечение стержня.
type Section struct {
	E float64 `json:"E"`
	A float64 `json:"A"`
	I float64 `json:"I"`
}

const (
	DefaultE = 200e9 // Па
	DefaultA = 0.01  // м²
	DefaultI = 1e-6  // м⁴
)

func DefaultSection() Section {
	return Section{E: DefaultE, A: DefaultA, I: DefaultI}
}

// WithDefaults подставляет значения по умолчанию вместо незаданных (нулевых).
func (s Section) WithDefaults() Section {
	if s.E == 0 {
		s.E = DefaultE
	}
	if s.A == 0 {
		s.A = DefaultA
	}
	if s.I == 0 {
		s.I = DefaultI
	}
	return s
}

type Joint struct {
	ID  int64
	Pts [1]geom.Point
}

type Support struct {
	ID  int64
	Pts [1]geom.Point
	Ux  bool
	Uy  bool
	Rz  bool
}

// Load: Pts[0] — точка приложения, Pts[1] — конец стрелки (задает направление).
type Load struct {
	ID     int64
	Pts    [2]geom.Point
	Amount float64
}

type Member struct {
	ID      int64
	Pts     [2]geom.Point
	Section Section
}

type Cable struct {
	ID      int64
	Pts     [2]geom.Point
	Section Section
}

// Plane: 4 угла по обходу контура.
type Plane struct {
	ID  int64
	Pts [4]geom.Point
}

// Solid: 0–3 одна грань, 4–7 противоположная, i-я вершина парна (i+4)-й.
type Solid struct {
	ID  int64
	Pts [8]geom.Point
}

func (e *Joint) ElementID() int64   { return e.ID }
func (e *Support) ElementID() int64 { return e.ID }
func (e *Load) ElementID() int64    { return e.ID }
func (e *Member) ElementID() int64  { return e.ID }
func (e *Cable) ElementID() int64   { return e.ID }
func (e *Plane) ElementID() int64   { return e.ID }
func (e *Solid) ElementID() int64   { return e.ID }

func (e *Joint) Kind() Kind   { return KindJoint }
func (e *Support) Kind() Kind { return KindSupport }
func (e *Load) Kind() Kind    { return KindLoad }
func (e *Member) Kind() Kind  { return KindMember }
func (e *Cable) Kind() Kind   { return KindCable }
func (e *Plane) Kind() Kind   { return KindPlane }
func (e *Solid) Kind() Kind   { return KindSolid }

func (e *Joint) Points() []geom.Point   { return e.Pts[:] }
func (e *Support) Points() []geom.Point { return e.Pts[:] }
func (e *Load) Points() []geom.Point    { return e.Pts[:] }
func (e *Member) Points() []geom.Point  { return e.Pts[:] }
func (e *Cable) Points() []geom.Point   { return e.Pts[:] }
func (e *Plane) Points() []geom.Point   { return e.Pts[:] }
func (e *Solid) Points() []geom.Point   { return e.Pts[:] }

func (e *Joint) setID(id int64)   { e.ID = id }
func (e *Support) setID(id int64) { e.ID = id }
func (e *Load) setID(id int64)    { e.ID = id }
func (e *Member) setID(id int64)  { e.ID = id }
func (e *Cable) setID(id int64)   { e.ID = id }
func (e *Plane) setID(id int64)   { e.ID = id }
func (e *Solid) setID(id int64)   { e.ID = id }

func (e *Joint) clone() Element   { c := *e; return &c }
func (e *Support) clone() Element { c := *e; return &c }
func (e *Load) clone() Element    { c := *e; return &c }
func (e *Member) clone() Element  { c := *e; return &c }
func (e *Cable) clone() Element   { c := *e; return &c }
func (e *Plane) clone() Element   { c := *e; return &c }
func (e *Solid) clone() Element   { c := *e; return &c }

// IsLinear — элементы с двумя концами (Load, Member, Cable).
func IsLinear(e Element) bool {
	switch e.(type) {
	case *Load, *Member, *Cable:
		return true
	}
	return false
}

// SnapshotPoints копирует точки элемента.
func SnapshotPoints(e Element) []geom.Point {
	return append([]geom.Point(nil), e.Points()...)
}

// RestorePoints записывает точки обратно в элемент.
func RestorePoints(e Element, pts []geom.Point) {
	copy(e.Points(), pts)
}

// AssignID задает id элемента (используется при загрузке сохраненного листа).
func AssignID(e Element, id int64) {
	e.setID(id)
}
