package sandbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Albert-Vanderboom/taskflow-web-app-demo/internal/api"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("item not found")

// Repository stores items in SQLite.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path. An empty path or
// ":memory:" keeps everything in memory on a single connection.
func OpenSQLite(path string) (*sql.DB, error) {
	path = strings.TrimSpace(path)
	memory := path == "" || path == ":memory:"
	if memory {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewRepository creates the schema if needed.
func NewRepository(db *sql.DB) (*Repository, error) {
	r := &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS items (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create items table: %w", err)
	}
	return r, nil
}

// List returns every item ordered by id.
func (r *Repository) List(ctx context.Context) ([]api.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, created_at, updated_at FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []api.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns one item or ErrNotFound.
func (r *Repository) Get(ctx context.Context, id int64) (api.Item, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, created_at, updated_at FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Item{}, ErrNotFound
	}
	if err != nil {
		return api.Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Create inserts a new item and returns it with its assigned id.
func (r *Repository) Create(ctx context.Context, dto api.CreateItemDTO) (api.Item, error) {
	now := r.now().Format(time.RFC3339Nano)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO items (title, description, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		dto.Title, dto.Description, now, now)
	if err != nil {
		return api.Item{}, fmt.Errorf("create item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return api.Item{}, fmt.Errorf("create item: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces the title and description of item id.
func (r *Repository) Update(ctx context.Context, id int64, dto api.CreateItemDTO) (api.Item, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		dto.Title, dto.Description, r.now().Format(time.RFC3339Nano), id)
	if err != nil {
		return api.Item{}, fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return api.Item{}, fmt.Errorf("update item: %w", err)
	}
	if n == 0 {
		return api.Item{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes item id or returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (api.Item, error) {
	var (
		item             api.Item
		created, updated string
	)
	if err := s.Scan(&item.ID, &item.Title, &item.Description, &created, &updated); err != nil {
		return api.Item{}, err
	}
	item.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	item.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return item, nil
}
