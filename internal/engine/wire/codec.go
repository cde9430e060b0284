package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
)

// ============================================================
// Serialized elements
// ============================================================

// Element — сериализованный элемент листа. Канонический формат — массив points;
// старые плоские поля (x, y, z, x2, ..., length, width) принимаются только на входе.
type Element struct {
	ID     int64        `json:"id,omitempty"`
	Type   string       `json:"type"`
	Points []geom.Point `json:"points,omitempty"`

	// legacy
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Z      *float64 `json:"z,omitempty"`
	X2     *float64 `json:"x2,omitempty"`
	Y2     *float64 `json:"y2,omitempty"`
	Z2     *float64 `json:"z2,omitempty"`
	Length float64  `json:"length,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	Normal string   `json:"normal,omitempty"`

	Ux     *bool    `json:"ux,omitempty"`
	Uy     *bool    `json:"uy,omitempty"`
	Rz     *bool    `json:"rz,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	E      *float64 `json:"E,omitempty"`
	A      *float64 `json:"A,omitempty"`
	I      *float64 `json:"I,omitempty"`
}

// Decode разбирает JSON-массив элементов и приводит его к сцене.
// Неизвестные типы пропускаются.
func Decode(data []byte) ([]scene.Element, error) {
	var raw []Element
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	return UpgradeAll(raw), nil
}

// DecodeRaw разбирает элементы из уже распарсенных JSON-значений.
func DecodeRaw(items []json.RawMessage) []scene.Element {
	var raw []Element
	for _, item := range items {
		var w Element
		if err := json.Unmarshal(item, &w); err != nil {
			continue
		}
		raw = append(raw, w)
	}
	return UpgradeAll(raw)
}

func UpgradeAll(raw []Element) []scene.Element {
	out := make([]scene.Element, 0, len(raw))
	for _, w := range raw {
		if el, ok := Upgrade(w); ok {
			out = append(out, el)
		}
	}
	return out
}

// Upgrade переводит сериализованный элемент (в т.ч. старого формата) в вариант сцены.
func Upgrade(w Element) (scene.Element, bool) {
	kind := scene.Kind(strings.ToLower(strings.TrimSpace(w.Type)))
	anchor := geom.Point{X: deref(w.X, 0), Y: deref(w.Y, 0), Z: deref(w.Z, 0)}

	var el scene.Element
	switch kind {
	case scene.KindJoint:
		el = &scene.Joint{Pts: [1]geom.Point{w.point(0, anchor)}}
	case scene.KindSupport:
		el = &scene.Support{
			Pts: [1]geom.Point{w.point(0, anchor)},
			Ux:  derefBool(w.Ux, true),
			Uy:  derefBool(w.Uy, true),
			Rz:  derefBool(w.Rz, true),
		}
	case scene.KindLoad:
		pts := w.pair(anchor, geom.Point{Y: -1})
		el = &scene.Load{Pts: pts, Amount: deref(w.Amount, scene.DefaultLoadAmount)}
	case scene.KindMember:
		el = &scene.Member{Pts: w.pair(anchor, geom.Point{X: 1}), Section: w.section()}
	case scene.KindCable:
		el = &scene.Cable{Pts: w.pair(anchor, geom.Point{X: 1}), Section: w.section()}
	case scene.KindPlane:
		p := &scene.Plane{}
		if len(w.Points) == 4 {
			copy(p.Pts[:], w.Points)
		} else {
			p.Pts = scene.LegacyPlaneCorners(anchor, w.Length, w.Width, parseAxis(w.Normal))
		}
		el = p
	case scene.KindSolid:
		s := &scene.Solid{}
		if len(w.Points) == 8 {
			copy(s.Pts[:], w.Points)
		} else {
			s.Pts = scene.LegacySolidVertices(anchor, w.Length, w.Height, w.Width)
		}
		el = s
	default:
		return nil, false
	}

	scene.AssignID(el, w.ID)
	return el, true
}

func (w Element) point(i int, fallback geom.Point) geom.Point {
	if i < len(w.Points) {
		return w.Points[i]
	}
	return fallback
}

// pair — две точки линейного элемента; без points берутся x/y/z и x2/y2/z2.
func (w Element) pair(anchor, defaultDir geom.Point) [2]geom.Point {
	if len(w.Points) >= 2 {
		return [2]geom.Point{w.Points[0], w.Points[1]}
	}
	start := w.point(0, anchor)
	if w.X2 == nil && w.Y2 == nil && w.Z2 == nil {
		return [2]geom.Point{start, start.Add(defaultDir)}
	}
	end := geom.Point{X: deref(w.X2, start.X), Y: deref(w.Y2, start.Y), Z: deref(w.Z2, start.Z)}
	return [2]geom.Point{start, end}
}

func (w Element) section() scene.Section {
	return scene.Section{E: deref(w.E, 0), A: deref(w.A, 0), I: deref(w.I, 0)}.WithDefaults()
}

func parseAxis(s string) geom.Axis {
	switch strings.ToLower(s) {
	case "x":
		return geom.AxisX
	case "y":
		return geom.AxisY
	}
	return geom.AxisZ
}

func deref(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func derefBool(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// ============================================================
// Encoding
// ============================================================

// Encode сериализует сцену в канонический формат.
func Encode(elements []scene.Element) []Element {
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		w := Element{
			ID:     e.ElementID(),
			Type:   string(e.Kind()),
			Points: scene.SnapshotPoints(e),
		}
		switch v := e.(type) {
		case *scene.Support:
			w.Ux, w.Uy, w.Rz = ptr(v.Ux), ptr(v.Uy), ptr(v.Rz)
		case *scene.Load:
			w.Amount = ptr(v.Amount)
		case *scene.Member:
			w.E, w.A, w.I = ptr(v.Section.E), ptr(v.Section.A), ptr(v.Section.I)
		case *scene.Cable:
			w.E, w.A, w.I = ptr(v.Section.E), ptr(v.Section.A), ptr(v.Section.I)
		}
		out = append(out, w)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

// Marshal — Encode + JSON.
func Marshal(elements []scene.Element) ([]byte, error) {
	return json.Marshal(Encode(elements))
}
