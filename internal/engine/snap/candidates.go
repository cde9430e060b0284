package snap

import (
	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
)

// ============================================================
// Snap candidates
// ============================================================

type Kind string

const (
	KindJoint           Kind = "Joint"
	KindSupport         Kind = "Support"
	KindLoadPoint       Kind = "LoadPoint"
	KindEnd             Kind = "End"
	KindMidpoint        Kind = "Midpoint"
	KindPlaneCorner     Kind = "PlaneCorner"
	KindPlaneEdgeMid    Kind = "PlaneEdgeMid"
	KindPlaneCenter     Kind = "PlaneCenter"
	KindSolidCorner     Kind = "SolidCorner"
	KindSolidEdgeMid    Kind = "SolidEdgeMid"
	KindSolidFaceCenter Kind = "SolidFaceCenter"
	KindSolidCenter     Kind = "SolidCenter"
	KindLine            Kind = "Line"
)

// Point — точка-кандидат для привязки.
type Point struct {
	P       geom.Point
	Kind    Kind
	Element int64
}

// Line — осевая линия стержня или нагрузки.
type Line struct {
	A       geom.Point
	B       geom.Point
	Element int64
}

// Points перечисляет значимые точки всех элементов, кроме excludeID,
// в порядке элементов сцены.
func Points(s *scene.Scene, excludeID int64) []Point {
	var out []Point
	for _, e := range s.Elements() {
		if e.ElementID() == excludeID {
			continue
		}
		out = append(out, elementPoints(e)...)
	}
	return out
}

func elementPoints(e scene.Element) []Point {
	id := e.ElementID()
	add := func(out []Point, p geom.Point, k Kind) []Point {
		return append(out, Point{P: p, Kind: k, Element: id})
	}

	var out []Point
	switch el := e.(type) {
	case *scene.Joint:
		out = add(out, el.Pts[0], KindJoint)
	case *scene.Support:
		out = add(out, el.Pts[0], KindSupport)
	case *scene.Load:
		out = add(out, el.Pts[0], KindLoadPoint)
	case *scene.Member, *scene.Cable:
		pts := e.Points()
		out = add(out, pts[0], KindEnd)
		out = add(out, pts[1], KindEnd)
		out = add(out, geom.Midpoint(pts[0], pts[1]), KindMidpoint)
	case *scene.Plane:
		for _, p := range el.Pts {
			out = add(out, p, KindPlaneCorner)
		}
		for _, edge := range scene.PlaneEdges {
			out = add(out, geom.Midpoint(el.Pts[edge[0]], el.Pts[edge[1]]), KindPlaneEdgeMid)
		}
		out = add(out, geom.Centroid(el.Pts[:]), KindPlaneCenter)
	case *scene.Solid:
		for _, p := range el.Pts {
			out = add(out, p, KindSolidCorner)
		}
		for _, edge := range scene.SolidEdges {
			out = add(out, geom.Midpoint(el.Pts[edge[0]], el.Pts[edge[1]]), KindSolidEdgeMid)
		}
		for i := range scene.SolidFaces {
			out = add(out, geom.Centroid(scene.FacePoints(el, i)), KindSolidFaceCenter)
		}
		out = add(out, geom.Centroid(el.Pts[:]), KindSolidCenter)
	}
	return out
}

// Lines перечисляет осевые линии Member/Cable/Load, кроме excludeID.
func Lines(s *scene.Scene, excludeID int64) []Line {
	var out []Line
	for _, e := range s.Elements() {
		if e.ElementID() == excludeID || !scene.IsLinear(e) {
			continue
		}
		pts := e.Points()
		out = append(out, Line{A: pts[0], B: pts[1], Element: e.ElementID()})
	}
	return out
}
