package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"frame-sketch/internal/engine/model"
	"frame-sketch/internal/engine/scene"
	"frame-sketch/internal/engine/wire"
	"frame-sketch/internal/sheets/models"
	"frame-sketch/internal/sheets/repository"
	"frame-sketch/internal/sheets/session"
	"frame-sketch/internal/sheets/solver"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Sheets Handler
// ============================================================

// Solver — внешний расчетный сервис.
type Solver interface {
	Solve(ctx context.Context, m model.Model) (*solver.Result, error)
}

type SheetsHandler struct {
	repo     *repository.Repository
	sessions *session.Manager
	solver   Solver
}

func NewSheetsHandler(repo *repository.Repository, sessions *session.Manager, solver Solver) *SheetsHandler {
	return &SheetsHandler{
		repo:     repo,
		sessions: sessions,
		solver:   solver,
	}
}

type nameRequest struct {
	Name *string `json:"name"`
}

type actionRequest struct {
	SheetID  int64             `json:"sheet_id"`
	Elements []json.RawMessage `json:"elements"`
}

type solveResponse struct {
	Model  model.Model    `json:"model"`
	Result *solver.Result `json:"result"`
}

// List возвращает все листы.
func (h *SheetsHandler) List(c fiber.Ctx) error {
	sheets, err := h.repo.List(context.Background())
	if err != nil {
		log.Printf("[SHEETS] list error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list sheets"})
	}
	return c.JSON(sheets)
}

// Create создает лист; без имени — "Untitled".
func (h *SheetsHandler) Create(c fiber.Ctx) error {
	var req nameRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
		}
	}

	name := models.DefaultSheetName
	if req.Name != nil && *req.Name != "" {
		name = *req.Name
	}

	sheet, err := h.repo.Create(context.Background(), name)
	if err != nil {
		log.Printf("[SHEETS] create error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create sheet"})
	}
	log.Printf("[SHEETS] Created sheet %d (%s)", sheet.ID, sheet.Name)
	return c.JSON(sheet)
}

// Get возвращает лист вместе с элементами.
func (h *SheetsHandler) Get(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	ctx := context.Background()
	sheet, err := h.repo.Get(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	elements, err := h.repo.Elements(ctx, id)
	if err != nil {
		return repoError(c, err)
	}

	return c.JSON(models.SheetDetail{ID: sheet.ID, Name: sheet.Name, Elements: elements})
}

// Update переименовывает лист.
func (h *SheetsHandler) Update(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	var req nameRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}
	if req.Name == nil || *req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name-required"})
	}

	sheet, err := h.repo.Rename(context.Background(), id, *req.Name)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(sheet)
}

// Delete удаляет лист и закрывает его сессии. Последний лист не удаляется.
func (h *SheetsHandler) Delete(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	if err := h.repo.Delete(context.Background(), id); err != nil {
		return repoError(c, err)
	}
	if n := h.sessions.CloseSheet(id); n > 0 {
		log.Printf("[SHEETS] Closed %d sessions of deleted sheet %d", n, id)
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// RecordAction пишет действие в журнал и заменяет элементы листа.
func (h *SheetsHandler) RecordAction(c fiber.Ctx) error {
	var req actionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "JSON body required"})
	}

	if _, err := h.repo.RecordAction(context.Background(), req.SheetID, req.Elements); err != nil {
		return repoError(c, err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// Actions отдает журнал сохранений листа.
func (h *SheetsHandler) Actions(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	ctx := context.Background()
	if _, err := h.repo.Get(ctx, id); err != nil {
		return repoError(c, err)
	}
	actions, err := h.repo.Actions(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(actions)
}

// Model возвращает расчетную модель, извлеченную из элементов листа.
func (h *SheetsHandler) Model(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	m, err := h.sheetModel(id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(m)
}

// Solve извлекает модель листа и отправляет ее решателю.
func (h *SheetsHandler) Solve(c fiber.Ctx) error {
	id, ok := sheetID(c)
	if !ok {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid sheet id"})
	}

	m, err := h.sheetModel(id)
	if err != nil {
		return repoError(c, err)
	}
	return h.solve(c, m)
}

func (h *SheetsHandler) sheetModel(id int64) (model.Model, error) {
	raw, err := h.repo.Elements(context.Background(), id)
	if err != nil {
		return model.Model{}, err
	}

	s := scene.New()
	s.Replace(wire.DecodeRaw(raw))
	return model.Build(s), nil
}

func (h *SheetsHandler) solve(c fiber.Ctx, m model.Model) error {
	log.Printf("[SHEETS] Solving model: %d nodes, %d members", m.NodeCount(), len(m.Members))

	res, err := h.solver.Solve(context.Background(), m)
	if err != nil {
		log.Printf("[SHEETS] solve error: %v", err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "solver failed"})
	}
	return c.JSON(solveResponse{Model: m, Result: res})
}

// ============================================================
// Helpers
// ============================================================

func sheetID(c fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func repoError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "sheet not found"})
	case errors.Is(err, repository.ErrLastSheet):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "last-sheet"})
	}
	log.Printf("[SHEETS] storage error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "storage failed"})
}
