package projection

import (
	"fmt"

	"frame-sketch/internal/engine/geom"

	"github.com/go-gl/mathgl/mgl64"
)

// ============================================================
// Views
// ============================================================

// View — одна из шести дискретных ортогональных проекций.
type View int

const (
	ViewFront View = iota
	ViewBack
	ViewLeft
	ViewRight
	ViewTop
	ViewBottom
)

var viewNames = map[View]string{
	ViewFront:  "front",
	ViewBack:   "back",
	ViewLeft:   "left",
	ViewRight:  "right",
	ViewTop:    "top",
	ViewBottom: "bottom",
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// ParseView разбирает имя вида ("front", "top", ...).
func ParseView(name string) (View, error) {
	for v, n := range viewNames {
		if n == name {
			return v, nil
		}
	}
	return ViewFront, fmt.Errorf("unknown view %q", name)
}

// AxisInfo описывает, какие мировые оси лежат по горизонтали и вертикали экрана.
// Ось Y экрана направлена вниз.
type AxisInfo struct {
	H     geom.Axis `json:"h"`
	HSign float64   `json:"h_sign"`
	V     geom.Axis `json:"v"`
	VSign float64   `json:"v_sign"`
}

var discreteAxes = map[View]AxisInfo{
	ViewFront:  {H: geom.AxisX, HSign: 1, V: geom.AxisY, VSign: -1},
	ViewBack:   {H: geom.AxisX, HSign: -1, V: geom.AxisY, VSign: -1},
	ViewLeft:   {H: geom.AxisZ, HSign: 1, V: geom.AxisY, VSign: -1},
	ViewRight:  {H: geom.AxisZ, HSign: -1, V: geom.AxisY, VSign: -1},
	ViewTop:    {H: geom.AxisX, HSign: 1, V: geom.AxisZ, VSign: 1},
	ViewBottom: {H: geom.AxisX, HSign: 1, V: geom.AxisZ, VSign: -1},
}

// DepthAxis — ось, отбрасываемая дискретным видом.
func (a AxisInfo) DepthAxis() geom.Axis {
	return geom.Axis(3 - int(a.H) - int(a.V))
}

// ============================================================
// View state
// ============================================================

// Mode — режим проекции.
type Mode int

const (
	ModeDiscrete Mode = iota
	ModeContinuous
)

func (m Mode) String() string {
	if m == ModeContinuous {
		return "continuous"
	}
	return "discrete"
}

// ViewState хранит активный вид и накопленные углы поворота.
// В непрерывном режиме последний дискретный вид запоминается.
type ViewState struct {
	mode  Mode
	view  View
	pitch float64
	yaw   float64
	roll  float64
}

func NewViewState() *ViewState {
	return &ViewState{mode: ModeDiscrete, view: ViewFront}
}

func (s *ViewState) Mode() Mode { return s.mode }

// View — последний выбранный дискретный вид.
func (s *ViewState) View() View { return s.view }

func (s *ViewState) Angles() (pitch, yaw, roll float64) {
	return s.pitch, s.yaw, s.roll
}

// SetView включает дискретный вид и сбрасывает углы поворота.
func (s *ViewState) SetView(v View) {
	s.mode = ModeDiscrete
	s.view = v
	s.pitch, s.yaw, s.roll = 0, 0, 0
}

// Rotate переключает в непрерывный режим и накапливает углы.
func (s *ViewState) Rotate(dPitch, dYaw float64) {
	s.mode = ModeContinuous
	s.pitch += dPitch
	s.yaw += dYaw
}

// SetAngles задает углы явно (режим становится непрерывным).
func (s *ViewState) SetAngles(pitch, yaw, roll float64) {
	s.mode = ModeContinuous
	s.pitch, s.yaw, s.roll = pitch, yaw, roll
}

// AxisInfo для непрерывного режима возвращает пару фронтального вида (приближение).
func (s *ViewState) AxisInfo() AxisInfo {
	if s.mode == ModeContinuous {
		return discreteAxes[ViewFront]
	}
	return discreteAxes[s.view]
}

// Rotation — матрица R = Rx(pitch)·Ry(yaw)·Rz(roll): сначала roll, затем yaw, затем pitch.
func (s *ViewState) Rotation() mgl64.Mat3 {
	return mgl64.Rotate3DX(s.pitch).Mul3(mgl64.Rotate3DY(s.yaw)).Mul3(mgl64.Rotate3DZ(s.roll))
}

// Project переводит мировую точку в координаты плоскости вида (метры, Y вниз).
func (s *ViewState) Project(p geom.Point) geom.Vec2 {
	if s.mode == ModeContinuous {
		r := s.Rotation().Mul3x1(mgl64.Vec3{p.X, p.Y, p.Z})
		return geom.Vec2{X: r.X(), Y: -r.Y()}
	}

	info := discreteAxes[s.view]
	return geom.Vec2{
		X: info.HSign * p.Get(info.H),
		Y: info.VSign * p.Get(info.V),
	}
}

// Depth — координата вдоль оси взгляда; меньше значит ближе к зрителю.
func (s *ViewState) Depth(p geom.Point) float64 {
	if s.mode == ModeContinuous {
		r := s.Rotation().Mul3x1(mgl64.Vec3{p.X, p.Y, p.Z})
		return -r.Z()
	}

	info := discreteAxes[s.view]
	d := info.DepthAxis()
	// знак: правая тройка (h, -v, к зрителю)
	h := geom.Point{}.With(info.H, info.HSign)
	v := geom.Point{}.With(info.V, -info.VSign)
	toViewer := h.Cross(v)
	return -toViewer.Get(d) * p.Get(d)
}

// Unproject переводит смещение в плоскости вида в мировое смещение.
// В дискретном режиме это точная обратная операция на двух видимых осях.
// В непрерывном режиме — приближение: оси экрана считаются мировыми X и -Y,
// матрица поворота не учитывается.
func (s *ViewState) Unproject(d geom.Vec2) geom.Point {
	info := s.AxisInfo()
	var out geom.Point
	out = out.With(info.H, d.X*info.HSign)
	out = out.With(info.V, d.Y*info.VSign)
	return out
}
