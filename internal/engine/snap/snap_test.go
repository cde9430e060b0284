package snap

import (
	"testing"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/projection"
	"frame-sketch/internal/engine/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(a, b geom.Point) *scene.Member {
	return &scene.Member{Pts: [2]geom.Point{a, b}, Section: scene.DefaultSection()}
}

func joint(p geom.Point) *scene.Joint {
	return &scene.Joint{Pts: [1]geom.Point{p}}
}

// по умолчанию: фронтальный вид, 100 px на метр, без панорамирования
func newSnapper(s *scene.Scene) *Snapper {
	return New(s, projection.NewViewport())
}

func TestCandidateCounts(t *testing.T) {
	s := scene.New()
	m := s.Add(member(geom.Point{}, geom.Point{X: 1}))
	s.Add(scene.NewElement(scene.KindPlane, geom.Point{}))
	s.Add(scene.NewElement(scene.KindSolid, geom.Point{}))
	s.Add(scene.NewElement(scene.KindLoad, geom.Point{}))

	assert.Len(t, Points(s, 0), 3+9+27+1)
	assert.Len(t, Points(s, m.ElementID()), 9+27+1)
	assert.Len(t, Lines(s, 0), 2)
	assert.Len(t, Lines(s, m.ElementID()), 1)

	kinds := map[Kind]int{}
	for _, c := range Points(s, 0) {
		kinds[c.Kind]++
	}
	assert.Equal(t, 6, kinds[KindSolidFaceCenter])
	assert.Equal(t, 1, kinds[KindMidpoint])
	assert.Equal(t, 1, kinds[KindLoadPoint])
}

func TestMemberEndpointSnapsExactlyOntoEndpoint(t *testing.T) {
	s := scene.New()
	target := s.Add(member(geom.Point{}, geom.Point{X: 1}))
	moved := s.Add(member(geom.Point{X: 1.03, Y: 0.04}, geom.Point{X: 3, Y: 3})).(*scene.Member)

	res := newSnapper(s).Apply(moved)

	assert.Equal(t, geom.Point{X: 1}, moved.Pts[0])
	assert.Equal(t, geom.Point{X: 3, Y: 3}, moved.Pts[1])
	require.Contains(t, res.Snapped, 0)
	assert.Equal(t, KindEnd, res.Snapped[0].Kind)
	assert.Equal(t, target.ElementID(), res.Snapped[0].Element)
}

func TestLinearEndpointsSnapIndependently(t *testing.T) {
	s := scene.New()
	s.Add(member(geom.Point{}, geom.Point{X: 1}))
	s.Add(joint(geom.Point{X: 3, Y: 3}))
	load := s.Add(&scene.Load{Pts: [2]geom.Point{{X: -0.02, Y: 0.01}, {X: 3.05, Y: 3}}, Amount: 10}).(*scene.Load)

	res := newSnapper(s).Apply(load)

	assert.Equal(t, geom.Point{}, load.Pts[0])
	assert.Equal(t, geom.Point{X: 3, Y: 3}, load.Pts[1])
	assert.Equal(t, KindEnd, res.Snapped[0].Kind)
	assert.Equal(t, KindJoint, res.Snapped[1].Kind)
}

func TestSnapOntoLine(t *testing.T) {
	s := scene.New()
	s.Add(member(geom.Point{}, geom.Point{X: 1}))
	j := s.Add(joint(geom.Point{X: 0.3, Y: 0.05})).(*scene.Joint)

	res := newSnapper(s).Apply(j)

	assert.InDelta(t, 0.3, j.Pts[0].X, 1e-12)
	assert.InDelta(t, 0, j.Pts[0].Y, 1e-12)
	assert.Equal(t, KindLine, res.Snapped[0].Kind)
}

func TestNoTargetIsNoop(t *testing.T) {
	s := scene.New()
	s.Add(joint(geom.Point{}))
	j := s.Add(joint(geom.Point{X: 0.2})).(*scene.Joint)

	res := newSnapper(s).Apply(j)

	assert.False(t, res.Any())
	assert.Equal(t, geom.Point{X: 0.2}, j.Pts[0])
}

func TestToleranceIsStrict(t *testing.T) {
	s := scene.New()
	s.Add(joint(geom.Point{}))
	j := s.Add(joint(geom.Point{X: 0.1})).(*scene.Joint) // ровно 10 px

	assert.False(t, newSnapper(s).Apply(j).Any())
}

func TestTieKeepsFirstEncountered(t *testing.T) {
	s := scene.New()
	first := s.Add(joint(geom.Point{Y: 0.05}))
	s.Add(joint(geom.Point{Y: -0.05}))
	j := s.Add(joint(geom.Point{})).(*scene.Joint)

	res := newSnapper(s).Apply(j)

	assert.Equal(t, geom.Point{Y: 0.05}, j.Pts[0])
	assert.Equal(t, first.ElementID(), res.Snapped[0].Element)
}

func TestPlaneSnapsAsRigidBody(t *testing.T) {
	s := scene.New()
	s.Add(joint(geom.Point{X: 2, Y: 2}))
	s.Add(joint(geom.Point{X: 0.96, Y: 1.03})) // 8 px от угла 0 после сдвига
	plane := scene.NewElement(scene.KindPlane, geom.Point{X: 1.5, Y: 1.5}).(*scene.Plane)
	geom.Translate(plane.Points(), geom.Point{X: 0.04, Y: 0.03})
	s.Add(plane)
	before := scene.SnapshotPoints(plane)

	res := newSnapper(s).Apply(plane)

	require.Len(t, res.Snapped, 1)
	require.Contains(t, res.Snapped, 2)
	assert.InDelta(t, -0.04, res.Offset.X, 1e-12)
	assert.InDelta(t, -0.03, res.Offset.Y, 1e-12)
	assert.Equal(t, geom.Point{X: 2, Y: 2}, plane.Pts[2])

	for i := range plane.Pts {
		want := before[i].Add(res.Offset)
		assert.InDelta(t, want.X, plane.Pts[i].X, 1e-12)
		assert.InDelta(t, want.Y, plane.Pts[i].Y, 1e-12)
		assert.InDelta(t, want.Z, plane.Pts[i].Z, 1e-12)
	}
	// форма сохраняется
	assert.InDelta(t, 1, plane.Pts[1].X-plane.Pts[0].X, 1e-12)
	assert.InDelta(t, 1, plane.Pts[3].Y-plane.Pts[0].Y, 1e-12)
}

func TestSolidRigidSnapInTopView(t *testing.T) {
	s := scene.New()
	s.Add(joint(geom.Point{X: 5, Z: 5}))
	solid := scene.NewElement(scene.KindSolid, geom.Point{X: 4.47, Y: 3, Z: 4.52}).(*scene.Solid)
	s.Add(solid)

	vp := projection.NewViewport()
	vp.View.SetView(projection.ViewTop)
	res := New(s, vp).Apply(solid)

	require.True(t, res.Any())
	// в виде сверху Y не виден: совпадение только по X/Z, сдвиг по Y — от цели
	assert.InDelta(t, 0.03, res.Offset.X, 1e-9)
	assert.InDelta(t, -0.02, res.Offset.Z, 1e-9)
	assert.InDelta(t, 1, solid.Pts[1].X-solid.Pts[0].X, 1e-9)
	assert.InDelta(t, 1, solid.Pts[4].Z-solid.Pts[0].Z, 1e-9)
}

func TestNearestExcludesElement(t *testing.T) {
	s := scene.New()
	j := s.Add(joint(geom.Point{}))
	sn := newSnapper(s)

	_, ok := sn.Nearest(geom.Point{X: 0.01}, j.ElementID())
	assert.False(t, ok)

	got, ok := sn.Nearest(geom.Point{X: 0.01}, 0)
	require.True(t, ok)
	assert.Equal(t, geom.Point{}, got.P)
}
