package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"icon-normalizer/internal/normalizer/models"
)

// ============================================================
// SQLite Repository
// ============================================================

// Repository хранит элементы батча. По умолчанию база в памяти:
// состояние живет только в пределах процесса.
type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

func (r *Repository) Insert(ctx context.Context, item models.Item) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO items (id, name, original, status)
        VALUES (?, ?, ?, ?)
    `, item.ID, item.Name, item.Original, models.StatusPending)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Item, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, original, processed, status, message, warnings, created_at
        FROM items
        WHERE id = ?
    `, id)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return item, nil
}

func (r *Repository) List(ctx context.Context) ([]models.Item, error) {
	return r.query(ctx, `
        SELECT id, name, original, processed, status, message, warnings, created_at
        FROM items
        ORDER BY created_at, name
    `)
}

// Successful возвращает только успешно нормализованные элементы — для архива.
func (r *Repository) Successful(ctx context.Context) ([]models.Item, error) {
	return r.query(ctx, `
        SELECT id, name, original, processed, status, message, warnings, created_at
        FROM items
        WHERE status = 'success'
        ORDER BY created_at, name
    `)
}

// SetResult фиксирует исход одной обработки элемента.
func (r *Repository) SetResult(ctx context.Context, id, status, message, processed string, warnings []string) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE items
        SET status = ?, message = ?, processed = ?, warnings = ?
        WHERE id = ?
    `, status, message, processed, strings.Join(warnings, "\n"), id)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	return nil
}

// ResetAll возвращает все элементы в pending перед повторным прогоном.
func (r *Repository) ResetAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE items
        SET status = ?, message = '', processed = '', warnings = ''
    `, models.StatusPending)
	if err != nil {
		return fmt.Errorf("reset items: %w", err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	return nil
}

func (r *Repository) query(ctx context.Context, q string) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func scanItem(scan func(...any) error) (*models.Item, error) {
	var item models.Item
	var warnings string
	if err := scan(&item.ID, &item.Name, &item.Original, &item.Processed,
		&item.Status, &item.Message, &warnings, &item.CreatedAt); err != nil {
		return nil, err
	}
	if warnings != "" {
		item.Warnings = strings.Split(warnings, "\n")
	}
	return &item, nil
}

// OpenSQLite открывает базу; пустой путь или ":memory:" — база в памяти.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	dsn := "file::memory:"
	if dbPath != "" && dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
