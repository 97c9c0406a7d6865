// Package storage persists saved items: a titled scene with a preview
// thumbnail. SQLite is the default backend; Postgres is available for
// shared deployments.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/typeid"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)

type ItemType string

const (
	ItemTraining ItemType = "training"
	ItemTactics  ItemType = "tactics"
)

func (t ItemType) Valid() bool {
	return t == ItemTraining || t == ItemTactics
}

type Item struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Type      ItemType    `json:"type"`
	Scene     scene.Scene `json:"scene"`
	Preview   string      `json:"preview,omitempty"` // PNG data URL
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ItemUpdate changes the non-nil fields of an item.
type ItemUpdate struct {
	Title   *string
	Type    *ItemType
	Scene   *scene.Scene
	Preview *string
}

func (u ItemUpdate) apply(it *Item) {
	if u.Title != nil {
		it.Title = *u.Title
	}
	if u.Type != nil {
		it.Type = *u.Type
	}
	if u.Scene != nil {
		it.Scene = *u.Scene
	}
	if u.Preview != nil {
		it.Preview = *u.Preview
	}
}

// Store is implemented by every backend. List returns the most recently
// updated items first. Get, Update and Delete return ErrNotFound for an
// unknown id.
type Store interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	// Save inserts a new item, assigning an id when it has none and
	// stamping both timestamps.
	Save(ctx context.Context, item Item) (*Item, error)
	// Update merges u into the item and bumps UpdatedAt.
	Update(ctx context.Context, id string, u ItemUpdate) (*Item, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the backend named by driver. dsn is a file path for
// SQLite and a connection URL for Postgres.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// newItem fills in what Save owns.
func newItem(item Item, now time.Time) Item {
	if item.ID == "" {
		item.ID = typeid.NewItemID()
	}
	item.Scene = scene.Normalize(item.Scene)
	item.CreatedAt = now
	item.UpdatedAt = now
	return item
}

// timestamp is the stored precision of item times.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func encodeScene(s scene.Scene) ([]byte, error) {
	data, err := json.Marshal(scene.Normalize(s))
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	return data, nil
}

func decodeScene(id string, data []byte) (scene.Scene, error) {
	s, err := scene.Decode(data)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("decode scene of %s: %w", id, err)
	}
	return s, nil
}
