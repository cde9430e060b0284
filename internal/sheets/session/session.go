package session

import (
	"sync"

	"frame-sketch/internal/engine/edit"
	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/engine/wire"
	"frame-sketch/internal/sheets/solver"

	"github.com/google/uuid"
)

// ============================================================
// Edit Session
// ============================================================

// Session — открытый на редактирование лист. Движок не потокобезопасен,
// поэтому все обращения идут через Do.
type Session struct {
	ID      string
	SheetID int64

	mu        sync.Mutex
	engine    *edit.Engine
	lastSolve *solver.Result
}

// Do выполняет fn под замком сессии.
func (s *Session) Do(fn func(e *edit.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// Load заменяет сцену и сбрасывает последний результат расчета.
func (s *Session) Load(elements []scene.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Load(elements)
	s.lastSolve = nil
}

func (s *Session) SetLastSolve(res *solver.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSolve = res
}

func (s *Session) LastSolve() *solver.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSolve
}

// Snapshot — независимая копия сцены; с ней можно работать без замка сессии.
func (s *Session) Snapshot() *scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Scene.Clone()
}

// State — снимок сессии для клиента.
type State struct {
	ID        string         `json:"id"`
	SheetID   int64          `json:"sheet_id"`
	Elements  []wire.Element `json:"elements"`
	View      string         `json:"view"`
	Mode      string         `json:"mode"`
	Pitch     float64        `json:"pitch"`
	Yaw       float64        `json:"yaw"`
	Roll      float64        `json:"roll"`
	Zoom      float64        `json:"zoom"`
	Pan       geom.Vec2      `json:"pan"`
	Selected  int64          `json:"selected,omitempty"`
	Gesture   string         `json:"gesture"`
	DragMode  string         `json:"drag_mode,omitempty"`
	LastSolve *solver.Result `json:"last_solve,omitempty"`
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.engine
	vs := e.Viewport.View
	pitch, yaw, roll := vs.Angles()
	st := State{
		ID:        s.ID,
		SheetID:   s.SheetID,
		Elements:  wire.Encode(e.Scene.Elements()),
		View:      vs.View().String(),
		Mode:      vs.Mode().String(),
		Pitch:     pitch,
		Yaw:       yaw,
		Roll:      roll,
		Zoom:      e.Viewport.Camera.Zoom,
		Pan:       e.Viewport.Camera.Pan,
		Selected:  e.Selected(),
		Gesture:   string(e.State()),
		LastSolve: s.lastSolve,
	}
	if mode, ok := e.DragMode(); ok {
		st.DragMode = mode.String()
	}
	return st
}

// ============================================================
// Session Manager
// ============================================================

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

// Open создает сессию с новым движком, загруженным элементами листа.
func (m *Manager) Open(sheetID int64, elements []scene.Element) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		SheetID: sheetID,
		engine:  edit.New(),
	}
	s.engine.Load(elements)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return s
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// CloseSheet закрывает все сессии листа (например, после его удаления).
func (m *Manager) CloseSheet(sheetID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.SheetID == sheetID {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
