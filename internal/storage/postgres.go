package storage

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresStore keeps items in a Postgres table with the scene as JSONB.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, `
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
		it, err := scanPostgresItem(rows)
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

func (s *PostgresStore) Get(ctx context.Context, id string) (*Item, error) {
	return getPostgres(ctx, s.pool, id, "")
}

type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getPostgres(ctx context.Context, q pgQuerier, id, lock string) (*Item, error) {
	row := q.QueryRow(ctx, `
		SELECT id, title, item_type, scene, preview, created_at, updated_at
		FROM saved_items
		WHERE id = $1 `+lock, id)
	it, err := scanPostgresItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return it, err
}

func (s *PostgresStore) Save(ctx context.Context, item Item) (*Item, error) {
	item = newItem(item, timestamp(s.now()))
	data, err := encodeScene(item.Scene)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO saved_items (id, title, item_type, scene, preview, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, item.ID, item.Title, string(item.Type), data, item.Preview, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) Update(ctx context.Context, id string, u ItemUpdate) (*Item, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback(ctx)

	it, err := getPostgres(ctx, tx, id, "FOR UPDATE")
	if err != nil {
		return nil, err
	}
	u.apply(it)
	it.UpdatedAt = timestamp(s.now())

	data, err := encodeScene(it.Scene)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx, `
		UPDATE saved_items
		SET title = $2, item_type = $3, scene = $4, preview = $5, updated_at = $6
		WHERE id = $1
	`, id, it.Title, string(it.Type), data, it.Preview, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return it, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPostgresItem(row pgx.Row) (*Item, error) {
	var (
		it       Item
		itemType string
		data     []byte
	)
	err := row.Scan(&it.ID, &it.Title, &itemType, &data, &it.Preview, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	sc, err := decodeScene(it.ID, data)
	if err != nil {
		return nil, err
	}
	it.Type = ItemType(itemType)
	it.Scene = sc
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}
