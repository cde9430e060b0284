package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"frame-sketch/internal/sheets/models"

	"github.com/google/uuid"
)

// ============================================================
// SQLite Repository
// ============================================================

var (
	ErrNotFound  = errors.New("not found")
	ErrLastSheet = errors.New("last sheet")
)

//go:embed migrations/001_init_sheets.sql
var initMigration string

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции и убеждается, что есть хотя бы один лист.
func (r *Repository) Init(ctx context.Context) error {
	if err := r.runMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return r.ensureSheet(ctx)
}

// ============================================================
// Sheets
// ============================================================

func (r *Repository) List(ctx context.Context) ([]models.Sheet, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, created_at
        FROM sheets
        ORDER BY id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sheets := []models.Sheet{}
	for rows.Next() {
		var s models.Sheet
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, rows.Err()
}

func (r *Repository) Create(ctx context.Context, name string) (*models.Sheet, error) {
	if name == "" {
		name = models.DefaultSheetName
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO sheets (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert sheet: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *Repository) Get(ctx context.Context, id int64) (*models.Sheet, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, created_at
        FROM sheets
        WHERE id = ?
    `, id)

	var s models.Sheet
	if err := row.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sheet %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Rename(ctx context.Context, id int64, name string) (*models.Sheet, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE sheets SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("sheet %d: %w", id, ErrNotFound)
	}
	return r.Get(ctx, id)
}

// Delete удаляет лист вместе с элементами и журналом. Последний лист удалить нельзя.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE id = ?`, id).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("sheet %d: %w", id, ErrNotFound)
	}

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets`).Scan(&total); err != nil {
		return err
	}
	if total <= 1 {
		return ErrLastSheet
	}

	for _, q := range []string{
		`DELETE FROM elements WHERE sheet_id = ?`,
		`DELETE FROM actions WHERE sheet_id = ?`,
		`DELETE FROM sheets WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return fmt.Errorf("delete sheet: %w", err)
		}
	}
	return tx.Commit()
}

// ============================================================
// Elements & Actions
// ============================================================

// Elements возвращает сериализованные элементы листа в порядке сохранения.
func (r *Repository) Elements(ctx context.Context, sheetID int64) ([]json.RawMessage, error) {
	if _, err := r.Get(ctx, sheetID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT json_blob
        FROM elements
        WHERE sheet_id = ?
        ORDER BY position
    `, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	elements := []json.RawMessage{}
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		elements = append(elements, json.RawMessage(blob))
	}
	return elements, rows.Err()
}

// RecordAction пишет действие в журнал и целиком заменяет элементы листа.
func (r *Repository) RecordAction(ctx context.Context, sheetID int64, elements []json.RawMessage) (string, error) {
	payload, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("encode action: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets WHERE id = ?`, sheetID).Scan(&exists); err != nil {
		return "", err
	}
	if exists == 0 {
		return "", fmt.Errorf("sheet %d: %w", sheetID, ErrNotFound)
	}

	actionID := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO actions (id, sheet_id, json_blob) VALUES (?, ?, ?)
    `, actionID, sheetID, string(payload)); err != nil {
		return "", fmt.Errorf("insert action: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM elements WHERE sheet_id = ?`, sheetID); err != nil {
		return "", fmt.Errorf("clear elements: %w", err)
	}
	for i, el := range elements {
		if _, err := tx.ExecContext(ctx, `
            INSERT INTO elements (sheet_id, position, json_blob) VALUES (?, ?, ?)
        `, sheetID, i, string(el)); err != nil {
			return "", fmt.Errorf("insert element: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return actionID, nil
}

// Actions — журнал действий листа, от старых к новым.
func (r *Repository) Actions(ctx context.Context, sheetID int64) ([]models.Action, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, sheet_id, json_blob, created_at
        FROM actions
        WHERE sheet_id = ?
        ORDER BY created_at, rowid
    `, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := []models.Action{}
	for rows.Next() {
		var a models.Action
		if err := rows.Scan(&a.ID, &a.SheetID, &a.Payload, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// ============================================================
// Migrations & Seeding
// ============================================================

func (r *Repository) runMigrations(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, initMigration); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (r *Repository) ensureSheet(ctx context.Context) error {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets`).Scan(&total); err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	if _, err := r.Create(ctx, models.DefaultSheetName); err != nil {
		return fmt.Errorf("seed sheet: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
