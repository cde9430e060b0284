package edit

import (
	"errors"
	"fmt"

	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/projection"
	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/engine/snap"
)

// ============================================================
// Engine
// ============================================================

var (
	ErrNotFound  = errors.New("element not found")
	ErrWrongKind = errors.New("operation not supported for element kind")
)

type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StatePanning  State = "panning"
	StateRotating State = "rotating"
)

const (
	// RotationSensitivity — радиан на пиксель при повороте вида.
	RotationSensitivity = 0.01
	// addMargin — отступ от начала экрана для новых элементов, пиксели.
	addMargin = 100.0
)

// PointerEvent — событие указателя в пикселях.
// Rotate означает жест поворота (например, перетаскивание с модификатором).
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Rotate bool    `json:"rotate"`
}

func (ev PointerEvent) pos() geom.Vec2 {
	return geom.Vec2{X: ev.X, Y: ev.Y}
}

// dragSession — неизменяемый снимок геометрии на начало перетаскивания.
type dragSession struct {
	element  scene.Element
	mode     DragMode
	snapshot []geom.Point
	axes     []geom.Axis // nil — без ограничения
}

// Engine — контекст редактора: сцена, вид, камера, выделение и текущий жест.
// Один писатель за раз; синхронизация — забота вызывающего.
type Engine struct {
	Scene    *scene.Scene
	Viewport *projection.Viewport

	snapper  *snap.Snapper
	state    State
	selected int64

	start    geom.Vec2
	last     geom.Vec2
	panStart geom.Vec2
	drag     *dragSession
}

func New() *Engine {
	e := &Engine{
		Scene:    scene.New(),
		Viewport: projection.NewViewport(),
		state:    StateIdle,
	}
	e.snapper = snap.New(e.Scene, e.Viewport)
	return e
}

// Load целиком заменяет сцену и сбрасывает жест и выделение.
func (e *Engine) Load(elements []scene.Element) {
	e.Scene.Replace(elements)
	e.state = StateIdle
	e.drag = nil
	e.selected = 0
}

func (e *Engine) State() State { return e.state }

func (e *Engine) Selected() int64 { return e.selected }

// Select выделяет элемент; 0 снимает выделение.
func (e *Engine) Select(id int64) error {
	if id != 0 && e.Scene.Get(id) == nil {
		return fmt.Errorf("select %d: %w", id, ErrNotFound)
	}
	e.selected = id
	return nil
}

// DragMode возвращает режим текущего перетаскивания.
func (e *Engine) DragMode() (DragMode, bool) {
	if e.drag == nil {
		return DragMode{}, false
	}
	return e.drag.mode, true
}

func (e *Engine) SetView(v projection.View) {
	e.Viewport.View.SetView(v)
}

// ============================================================
// Pointer gestures
// ============================================================

// PointerDown начинает жест: поворот, перетаскивание элемента или панорамирование.
func (e *Engine) PointerDown(ev PointerEvent) {
	if e.state != StateIdle {
		return
	}
	e.start = ev.pos()
	e.last = ev.pos()

	if ev.Rotate {
		e.state = StateRotating
		return
	}

	hit, ok := HitTest(e.Scene, e.Viewport, ev.pos())
	if !ok {
		e.selected = 0
		e.panStart = e.Viewport.Camera.Pan
		e.state = StatePanning
		return
	}

	e.selected = hit.Element.ElementID()
	e.drag = &dragSession{
		element:  hit.Element,
		mode:     hit.Mode,
		snapshot: scene.SnapshotPoints(hit.Element),
		axes:     constraintAxes(hit.Element, hit.Mode),
	}
	e.state = StateDragging
}

// PointerMove применяет смещение от начала жеста к снимку (без накопления ошибки).
func (e *Engine) PointerMove(ev PointerEvent) {
	cur := ev.pos()

	switch e.state {
	case StateDragging:
		d := cur.Sub(e.start)
		e.applyDrag(e.Viewport.ScreenDeltaToWorld(d.X, d.Y))
	case StatePanning:
		e.Viewport.Camera.Pan = e.panStart.Add(cur.Sub(e.start))
	case StateRotating:
		d := cur.Sub(e.last)
		e.Viewport.View.Rotate(d.Y*RotationSensitivity, d.X*RotationSensitivity)
	}
	e.last = cur
}

// PointerUp завершает жест; после перетаскивания элемент притягивается.
func (e *Engine) PointerUp(ev PointerEvent) snap.Result {
	var res snap.Result
	if e.state == StateDragging && e.drag != nil {
		e.PointerMove(ev)
		res = e.snapper.Apply(e.drag.element)
	}
	e.state = StateIdle
	e.drag = nil
	return res
}

// SnapHint — цель, к которой притянется захваченная точка при отпускании.
// Есть только у жестов, тянущих одну точку: конец стержня/нагрузки, узел, опора.
func (e *Engine) SnapHint() (snap.Target, bool) {
	if e.state != StateDragging || e.drag == nil {
		return snap.Target{}, false
	}

	idx := -1
	switch e.drag.mode.Kind {
	case DragStart:
		idx = 0
	case DragEnd:
		idx = 1
	case DragBody:
		switch e.drag.element.(type) {
		case *scene.Joint, *scene.Support:
			idx = 0
		}
	}
	if idx < 0 {
		return snap.Target{}, false
	}
	return e.snapper.Nearest(e.drag.element.Points()[idx], e.drag.element.ElementID())
}

// Cancel прерывает жест и возвращает элемент к снимку.
func (e *Engine) Cancel() {
	switch e.state {
	case StateDragging:
		if e.drag != nil {
			scene.RestorePoints(e.drag.element, e.drag.snapshot)
		}
	case StatePanning:
		e.Viewport.Camera.Pan = e.panStart
	}
	e.state = StateIdle
	e.drag = nil
}

func (e *Engine) applyDrag(delta geom.Point) {
	d := e.drag
	pts := d.element.Points()
	if d.axes != nil {
		delta = delta.Only(d.axes...)
	}

	move := func(idx ...int) {
		for _, i := range idx {
			pts[i] = d.snapshot[i].Add(delta)
		}
	}

	switch d.mode.Kind {
	case DragStart:
		move(0)
	case DragEnd:
		move(1)
	case DragEdge:
		edge := scene.PlaneEdges[d.mode.Index]
		move(edge[0], edge[1])
	case DragFace:
		f := scene.SolidFaces[d.mode.Index]
		move(f.Corners[:]...)
	default:
		for i := range pts {
			pts[i] = d.snapshot[i].Add(delta)
		}
	}
}

// constraintAxes — оси, вдоль которых разрешено смещение ребра/грани.
// Ребро плоскости: ось, доминирующая в направлении, перпендикулярном ребру в плоскости.
// Грань тела: ось нормали грани.
func constraintAxes(el scene.Element, mode DragMode) []geom.Axis {
	switch mode.Kind {
	case DragFace:
		return []geom.Axis{scene.SolidFaces[mode.Index].Normal}
	case DragEdge:
		pts := el.Points()
		edge := scene.PlaneEdges[mode.Index]
		normal := pts[1].Sub(pts[0]).Cross(pts[3].Sub(pts[0]))
		inPlane := normal.Cross(pts[edge[1]].Sub(pts[edge[0]]))
		if inPlane.Length() == 0 {
			return nil
		}
		return []geom.Axis{inPlane.DominantAxis()}
	}
	return nil
}

// ============================================================
// Element operations
// ============================================================

// AddElement создает элемент с геометрией по умолчанию около видимого начала экрана.
func (e *Engine) AddElement(kind scene.Kind) (scene.Element, error) {
	anchor := e.Viewport.ScreenToWorld(geom.Vec2{X: addMargin, Y: addMargin})
	el := scene.NewElement(kind, anchor)
	if el == nil {
		return nil, fmt.Errorf("add %q: %w", kind, ErrWrongKind)
	}
	e.Scene.Add(el)
	e.selected = el.ElementID()
	return el, nil
}

// DeleteSelected удаляет выделенный элемент. Зависимая геометрия не трогается.
func (e *Engine) DeleteSelected() bool {
	if e.selected == 0 {
		return false
	}
	if e.drag != nil && e.drag.element.ElementID() == e.selected {
		e.state = StateIdle
		e.drag = nil
	}
	ok := e.Scene.Remove(e.selected)
	e.selected = 0
	return ok
}

// Snap притягивает элемент по id вне жеста (например, после ввода координат).
func (e *Engine) Snap(id int64) (snap.Result, error) {
	el := e.Scene.Get(id)
	if el == nil {
		return snap.Result{}, fmt.Errorf("snap %d: %w", id, ErrNotFound)
	}
	return e.snapper.Apply(el), nil
}

// MoveTo задает координаты одной точки элемента.
func (e *Engine) MoveTo(id int64, index int, p geom.Point) error {
	el := e.Scene.Get(id)
	if el == nil {
		return fmt.Errorf("move %d: %w", id, ErrNotFound)
	}
	pts := el.Points()
	if index < 0 || index >= len(pts) {
		return fmt.Errorf("move %d: point index %d out of range", id, index)
	}
	pts[index] = p
	return nil
}

func (e *Engine) SetSupportFlags(id int64, ux, uy, rz bool) error {
	s, ok := e.Scene.Get(id).(*scene.Support)
	if !ok {
		return e.kindError("support flags", id)
	}
	s.Ux, s.Uy, s.Rz = ux, uy, rz
	return nil
}

func (e *Engine) SetSection(id int64, sec scene.Section) error {
	switch el := e.Scene.Get(id).(type) {
	case *scene.Member:
		el.Section = sec
	case *scene.Cable:
		el.Section = sec
	default:
		return e.kindError("section", id)
	}
	return nil
}

func (e *Engine) SetLoadAmount(id int64, amount float64) error {
	l, ok := e.Scene.Get(id).(*scene.Load)
	if !ok {
		return e.kindError("load amount", id)
	}
	l.Amount = amount
	return nil
}

func (e *Engine) kindError(op string, id int64) error {
	if e.Scene.Get(id) == nil {
		return fmt.Errorf("%s %d: %w", op, id, ErrNotFound)
	}
	return fmt.Errorf("%s %d: %w", op, id, ErrWrongKind)
}
