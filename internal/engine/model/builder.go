package model

import (
	"math"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
)

// ============================================================
// Solver model
// ============================================================

type Node struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type Member struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	E     float64 `json:"E"`
	A     float64 `json:"A"`
	I     float64 `json:"I"`
	Cable bool    `json:"cable,omitempty"`
}

type Load struct {
	Point int     `json:"point"`
	Fx    float64 `json:"fx"`
	Fy    float64 `json:"fy"`
	Fz    float64 `json:"fz"`
}

type Support struct {
	Point int  `json:"point"`
	Ux    bool `json:"ux"`
	Uy    bool `json:"uy"`
	Rz    bool `json:"rz"`
}

// Model — граф для внешнего решателя. Points[].ID — единственный ключ связей.
type Model struct {
	Points   []Node    `json:"points"`
	Members  []Member  `json:"members"`
	Loads    []Load    `json:"loads"`
	Supports []Support `json:"supports"`
}

// ============================================================
// Builder
// ============================================================

// precision — узлы совпадают, если равны координаты, округленные до 6 знаков.
const precision = 1e6

type nodeKey [3]int64

func keyOf(p geom.Point) nodeKey {
	return nodeKey{
		int64(math.Round(p.X * precision)),
		int64(math.Round(p.Y * precision)),
		int64(math.Round(p.Z * precision)),
	}
}

type builder struct {
	ids   map[nodeKey]int
	model Model
}

// Build извлекает модель из сцены. Чистая функция: сцена не меняется.
func Build(s *scene.Scene) Model {
	b := &builder{
		ids: make(map[nodeKey]int),
		model: Model{
			Points:   []Node{},
			Members:  []Member{},
			Loads:    []Load{},
			Supports: []Support{},
		},
	}

	for _, e := range s.Elements() {
		b.addElement(e)
	}
	return b.model
}

// findOrCreateNode возвращает id узла; новые id выдаются по порядку с 1.
func (b *builder) findOrCreateNode(p geom.Point) int {
	k := keyOf(p)
	if id, ok := b.ids[k]; ok {
		return id
	}

	id := len(b.model.Points) + 1
	b.ids[k] = id
	b.model.Points = append(b.model.Points, Node{ID: id, X: p.X, Y: p.Y, Z: p.Z})
	return id
}

func (b *builder) addElement(e scene.Element) {
	switch el := e.(type) {
	case *scene.Joint:
		b.findOrCreateNode(el.Pts[0])
	case *scene.Support:
		b.model.Supports = append(b.model.Supports, Support{
			Point: b.findOrCreateNode(el.Pts[0]),
			Ux:    el.Ux,
			Uy:    el.Uy,
			Rz:    el.Rz,
		})
	case *scene.Member:
		b.addMember(el.Pts, el.Section, false)
	case *scene.Cable:
		b.addMember(el.Pts, el.Section, true)
	case *scene.Load:
		b.addLoad(el)
	}
	// Plane/Solid — только визуализация, узлами не становятся
}

func (b *builder) addMember(pts [2]geom.Point, sec scene.Section, cable bool) {
	start := b.findOrCreateNode(pts[0])
	end := b.findOrCreateNode(pts[1])
	sec = sec.WithDefaults()

	b.model.Members = append(b.model.Members, Member{
		Start: start,
		End:   end,
		E:     sec.E,
		A:     sec.A,
		I:     sec.I,
		Cable: cable,
	})
}

// addLoad раскладывает величину нагрузки по направлению от точки приложения к концу стрелки.
// Конец стрелки узлом не является.
func (b *builder) addLoad(l *scene.Load) {
	point := b.findOrCreateNode(l.Pts[0])

	dir := l.Pts[1].Sub(l.Pts[0])
	length := dir.Length()
	if length == 0 {
		length = 1
	}
	f := dir.Mul(l.Amount / length)

	b.model.Loads = append(b.model.Loads, Load{Point: point, Fx: f.X, Fy: f.Y, Fz: f.Z})
}

// NodeCount — число структурных узлов.
func (m Model) NodeCount() int {
	return len(m.Points)
}
