package models

import "encoding/json"

// ============================================================
// Sheet Models
// ============================================================

type Sheet struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SheetDetail — лист вместе с сериализованными элементами.
type SheetDetail struct {
	ID       int64             `json:"id"`
	Name     string            `json:"name"`
	Elements []json.RawMessage `json:"elements"`
}

// Action — запись журнала правок листа.
type Action struct {
	ID        string `json:"id"`
	SheetID   int64  `json:"sheet_id"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"created_at"`
}

// DefaultSheetName — имя листа, если клиент его не передал.
const DefaultSheetName = "Untitled"
