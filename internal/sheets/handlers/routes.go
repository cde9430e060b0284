package handlers

import "github.com/gofiber/fiber/v3"

// ============================================================
// Routes
// ============================================================

// Register вешает маршруты листов и сессий на router.
func Register(router fiber.Router, sheets *SheetsHandler, sessions *SessionsHandler) {
	// Sheets
	router.Get("/sheets", sheets.List)
	router.Post("/sheets", sheets.Create)
	router.Post("/sheets/action", sheets.RecordAction)
	router.Get("/sheets/:id", sheets.Get)
	router.Put("/sheets/:id", sheets.Update)
	router.Delete("/sheets/:id", sheets.Delete)
	router.Get("/sheets/:id/actions", sheets.Actions)
	router.Get("/sheets/:id/model", sheets.Model)
	router.Post("/sheets/:id/solve", sheets.Solve)

	// Edit sessions
	router.Post("/sessions", sessions.Open)
	router.Get("/sessions/:sid", sessions.Get)
	router.Delete("/sessions/:sid", sessions.Close)
	router.Post("/sessions/:sid/pointer", sessions.Pointer)
	router.Post("/sessions/:sid/view", sessions.SetView)
	router.Post("/sessions/:sid/elements", sessions.AddElement)
	router.Put("/sessions/:sid/elements/:eid", sessions.UpdateElement)
	router.Put("/sessions/:sid/selection", sessions.Select)
	router.Delete("/sessions/:sid/selection", sessions.DeleteSelection)
	router.Post("/sessions/:sid/save", sessions.Save)
	router.Get("/sessions/:sid/model", sessions.Model)
	router.Post("/sessions/:sid/solve", sessions.Solve)
}
