package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"frame-sketch/internal/engine/edit"
	"frame-sketch/internal/engine/geom"
	"frame-sketch/internal/engine/model"
	"frame-sketch/internal/engine/projection"
	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/engine/snap"
	"frame-sketch/internal/engine/wire"
	"frame-sketch/internal/sheets/repository"
	"frame-sketch/internal/sheets/session"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Edit Sessions Handler
// ============================================================

type SessionsHandler struct {
	repo     *repository.Repository
	sessions *session.Manager
	solver   Solver
}

func NewSessionsHandler(repo *repository.Repository, sessions *session.Manager, solver Solver) *SessionsHandler {
	return &SessionsHandler{
		repo:     repo,
		sessions: sessions,
		solver:   solver,
	}
}

type openRequest struct {
	SheetID int64 `json:"sheet_id"`
}

type pointerRequest struct {
	Type string `json:"type"` // down | move | up | cancel
	edit.PointerEvent
}

type pointerResponse struct {
	State   session.State `json:"state"`
	Snapped int           `json:"snapped"`
	Hint    *snap.Target  `json:"hint,omitempty"`
}

type viewRequest struct {
	View   string     `json:"view"`
	Zoom   float64    `json:"zoom,omitempty"`
	Anchor *geom.Vec2 `json:"anchor,omitempty"`
	Pitch  *float64   `json:"pitch,omitempty"`
	Yaw    *float64   `json:"yaw,omitempty"`
	Roll   *float64   `json:"roll,omitempty"`
}

type selectRequest struct {
	ID int64 `json:"id"`
}

type addRequest struct {
	Kind string `json:"kind"`
}

type propertiesRequest struct {
	Ux     *bool       `json:"ux"`
	Uy     *bool       `json:"uy"`
	Rz     *bool       `json:"rz"`
	Amount *float64    `json:"amount"`
	E      *float64    `json:"E"`
	A      *float64    `json:"A"`
	I      *float64    `json:"I"`
	Point  *int        `json:"point"`
	At     *geom.Point `json:"at"`
}

// Open загружает лист в новую сессию редактирования.
func (h *SessionsHandler) Open(c fiber.Ctx) error {
	var req openRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	raw, err := h.repo.Elements(context.Background(), req.SheetID)
	if err != nil {
		return repoError(c, err)
	}

	s := h.sessions.Open(req.SheetID, wire.DecodeRaw(raw))
	log.Printf("[SESSIONS] Opened session %s for sheet %d", s.ID, req.SheetID)
	return c.Status(http.StatusCreated).JSON(s.State())
}

// Get возвращает состояние сессии.
func (h *SessionsHandler) Get(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(s.State())
}

// Pointer прокидывает событие указателя в движок.
func (h *SessionsHandler) Pointer(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req pointerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	var res snap.Result
	var hint *snap.Target
	err := s.Do(func(e *edit.Engine) error {
		switch req.Type {
		case "down":
			e.PointerDown(req.PointerEvent)
		case "move":
			e.PointerMove(req.PointerEvent)
			if t, ok := e.SnapHint(); ok {
				hint = &t
			}
		case "up":
			res = e.PointerUp(req.PointerEvent)
		case "cancel":
			e.Cancel()
		default:
			return errBadPointer
		}
		return nil
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(pointerResponse{State: s.State(), Snapped: len(res.Snapped), Hint: hint})
}

// SetView переключает дискретный вид, масштаб или задает углы поворота явно.
func (h *SessionsHandler) SetView(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req viewRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	err := s.Do(func(e *edit.Engine) error {
		if req.View != "" {
			v, err := projection.ParseView(req.View)
			if err != nil {
				return err
			}
			e.SetView(v)
		}
		if req.Zoom > 0 {
			var anchor geom.Vec2
			if req.Anchor != nil {
				anchor = *req.Anchor
			}
			e.Viewport.SetZoom(req.Zoom, anchor)
		}
		if req.Pitch != nil || req.Yaw != nil || req.Roll != nil {
			vs := e.Viewport.View
			pitch, yaw, roll := vs.Angles()
			vs.SetAngles(pick(req.Pitch, pitch), pick(req.Yaw, yaw), pick(req.Roll, roll))
		}
		return nil
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}

// AddElement добавляет элемент с геометрией по умолчанию.
func (h *SessionsHandler) AddElement(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req addRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	var added []wire.Element
	err := s.Do(func(e *edit.Engine) error {
		el, err := e.AddElement(scene.Kind(req.Kind))
		if err != nil {
			return err
		}
		added = wire.Encode([]scene.Element{el})
		return nil
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "unknown element kind"})
	}
	return c.Status(http.StatusCreated).JSON(added[0])
}

// UpdateElement меняет свойства элемента (опоры, сечение, нагрузку, координаты точки).
func (h *SessionsHandler) UpdateElement(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	id, err := strconv.ParseInt(c.Params("eid"), 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid element id"})
	}

	var req propertiesRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	err = s.Do(func(e *edit.Engine) error {
		return applyProperties(e, id, req)
	})
	switch {
	case errors.Is(err, edit.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "element not found"})
	case err != nil:
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(s.State())
}

// applyProperties сначала проверяет, что элемент поддерживает все запрошенные
// правки, и только потом меняет его: ошибка не оставляет элемент наполовину измененным.
func applyProperties(e *edit.Engine, id int64, req propertiesRequest) error {
	el := e.Scene.Get(id)
	if el == nil {
		return edit.ErrNotFound
	}

	flags := req.Ux != nil || req.Uy != nil || req.Rz != nil
	section := req.E != nil || req.A != nil || req.I != nil
	idx := pick(req.Point, 0)

	sup, isSupport := el.(*scene.Support)
	var sec scene.Section
	isFramed := false
	switch v := el.(type) {
	case *scene.Member:
		sec, isFramed = v.Section, true
	case *scene.Cable:
		sec, isFramed = v.Section, true
	}
	_, isLoad := el.(*scene.Load)

	switch {
	case flags && !isSupport:
		return fmt.Errorf("support flags %d: %w", id, edit.ErrWrongKind)
	case req.Amount != nil && !isLoad:
		return fmt.Errorf("load amount %d: %w", id, edit.ErrWrongKind)
	case section && !isFramed:
		return fmt.Errorf("section %d: %w", id, edit.ErrWrongKind)
	case req.At != nil && (idx < 0 || idx >= len(el.Points())):
		return fmt.Errorf("move %d: point index %d out of range", id, idx)
	}

	if flags {
		if err := e.SetSupportFlags(id, pick(req.Ux, sup.Ux), pick(req.Uy, sup.Uy), pick(req.Rz, sup.Rz)); err != nil {
			return err
		}
	}
	if req.Amount != nil {
		if err := e.SetLoadAmount(id, *req.Amount); err != nil {
			return err
		}
	}
	if section {
		sec = scene.Section{E: pick(req.E, sec.E), A: pick(req.A, sec.A), I: pick(req.I, sec.I)}
		if err := e.SetSection(id, sec); err != nil {
			return err
		}
	}
	if req.At != nil {
		if err := e.MoveTo(id, idx, *req.At); err != nil {
			return err
		}
		if _, err := e.Snap(id); err != nil {
			return err
		}
	}
	return nil
}

// Select выделяет элемент; id = 0 снимает выделение.
func (h *SessionsHandler) Select(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req selectRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	err := s.Do(func(e *edit.Engine) error {
		return e.Select(req.ID)
	})
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "element not found"})
	}
	return c.JSON(s.State())
}

// DeleteSelection удаляет выделенный элемент.
func (h *SessionsHandler) DeleteSelection(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var deleted bool
	s.Do(func(e *edit.Engine) error {
		deleted = e.DeleteSelected()
		return nil
	})
	if !deleted {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "nothing selected"})
	}
	return c.JSON(s.State())
}

// Save сохраняет сцену сессии в лист как новое действие.
func (h *SessionsHandler) Save(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var raw []json.RawMessage
	err := s.Do(func(e *edit.Engine) error {
		for _, w := range wire.Encode(e.Scene.Elements()) {
			data, err := json.Marshal(w)
			if err != nil {
				return err
			}
			raw = append(raw, data)
		}
		return nil
	})
	if err != nil {
		log.Printf("[SESSIONS] encode error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "encode failed"})
	}

	actionID, err := h.repo.RecordAction(context.Background(), s.SheetID, raw)
	if err != nil {
		return repoError(c, err)
	}
	log.Printf("[SESSIONS] Saved session %s to sheet %d (action %s)", s.ID, s.SheetID, actionID)
	return c.JSON(fiber.Map{"status": "ok", "action_id": actionID, "elements": len(raw)})
}

// Model возвращает модель текущей сцены сессии.
func (h *SessionsHandler) Model(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(sessionModel(s))
}

// Solve рассчитывает текущую сцену и запоминает результат в сессии.
func (h *SessionsHandler) Solve(c fiber.Ctx) error {
	s, ok := h.sessions.Get(c.Params("sid"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	m := sessionModel(s)
	res, err := h.solver.Solve(context.Background(), m)
	if err != nil {
		log.Printf("[SESSIONS] solve error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "solver failed"})
	}
	s.SetLastSolve(res)
	return c.JSON(solveResponse{Model: m, Result: res})
}

// Close закрывает сессию без сохранения.
func (h *SessionsHandler) Close(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("sid")) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(fiber.Map{"status": "closed"})
}

// sessionModel строит модель по копии сцены, не держа замок сессии.
func sessionModel(s *session.Session) model.Model {
	return model.Build(s.Snapshot())
}

var errBadPointer = errors.New("pointer type must be down, move, up or cancel")

func pick[T any](v *T, def T) T {
	if v == nil {
		return def
	}
	return *v
}
