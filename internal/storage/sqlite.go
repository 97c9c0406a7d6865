package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteStore keeps items in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := "file::memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir db dir: %w", err)
		}
		dsn = "file:" + path
	}
	dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writes serialized and the in-memory database alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, item_type, scene, preview, created_at, updated_at
		FROM saved_items
		ORDER BY updated_at DESC, created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		it, err := scanSQLiteItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Item, error) {
	return s.get(ctx, s.db, id)
}

type sqliteQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) get(ctx context.Context, q sqliteQuerier, id string) (*Item, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, title, item_type, scene, preview, created_at, updated_at
		FROM saved_items
		WHERE id = ?
	`, id)
	it, err := scanSQLiteItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (s *SQLiteStore) Save(ctx context.Context, item Item) (*Item, error) {
	item = newItem(item, timestamp(s.now()))
	data, err := encodeScene(item.Scene)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_items (id, title, item_type, scene, preview, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.Title, string(item.Type), string(data), item.Preview,
		item.CreatedAt.UnixMilli(), item.UpdatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &item, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id string, u ItemUpdate) (*Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	it, err := s.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	u.apply(it)
	it.UpdatedAt = timestamp(s.now())

	data, err := encodeScene(it.Scene)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE saved_items
		SET title = ?, item_type = ?, scene = ?, preview = ?, updated_at = ?
		WHERE id = ?
	`, it.Title, string(it.Type), string(data), it.Preview, it.UpdatedAt.UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return it, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = ?`, id)
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

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteItem(row rowScanner) (*Item, error) {
	var (
		it               Item
		itemType, data   string
		created, updated int64
	)
	if err := row.Scan(&it.ID, &it.Title, &itemType, &data, &it.Preview, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	sc, err := decodeScene(it.ID, []byte(data))
	if err != nil {
		return nil, err
	}
	it.Type = ItemType(itemType)
	it.Scene = sc
	it.CreatedAt = time.UnixMilli(created).UTC()
	it.UpdatedAt = time.UnixMilli(updated).UTC()
	return &it, nil
}
