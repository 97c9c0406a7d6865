package item

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/storage"
)

var (
	ErrNotFound     = storage.ErrNotFound
	ErrInvalidInput = errors.New("invalid input")
)

const (
	DefaultPreviewWidth  = 200
	DefaultPreviewHeight = 120
)

type Service struct {
	store  storage.Store
	raster *render.Raster

	previewWidth  int
	previewHeight int
}

// NewService builds the saved items service. A nil raster disables
// previews.
func NewService(store storage.Store, raster *render.Raster, previewWidth, previewHeight int) *Service {
	if previewWidth <= 0 || previewHeight <= 0 {
		previewWidth, previewHeight = DefaultPreviewWidth, DefaultPreviewHeight
	}
	return &Service{
		store:         store,
		raster:        raster,
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
	}
}

type CreateInput struct {
	Title string
	Type  storage.ItemType
	Scene scene.Scene
}

type UpdateInput struct {
	Title *string
	Type  *storage.ItemType
	Scene *scene.Scene
}

func (s *Service) List(ctx context.Context) ([]storage.Item, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*storage.Item, error) {
	it, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return it, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*storage.Item, error) {
	title, err := validTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, in.Type)
	}
	sc, err := validScene(in.Scene)
	if err != nil {
		return nil, err
	}

	it, err := s.store.Save(ctx, storage.Item{
		Title:   title,
		Type:    in.Type,
		Scene:   sc,
		Preview: s.preview(sc),
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	slog.Info("item created", "id", it.ID, "type", it.Type)
	return it, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*storage.Item, error) {
	var u storage.ItemUpdate
	if in.Title != nil {
		title, err := validTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		u.Title = &title
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidInput, *in.Type)
		}
		u.Type = in.Type
	}
	if in.Scene != nil {
		sc, err := validScene(*in.Scene)
		if err != nil {
			return nil, err
		}
		preview := s.preview(sc)
		u.Scene = &sc
		u.Preview = &preview
	}

	it, err := s.store.Update(ctx, id, u)
	if err != nil {
		return nil, fmt.Errorf("update item %s: %w", id, err)
	}
	return it, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	slog.Info("item deleted", "id", id)
	return nil
}

// preview renders sc as a PNG data URL at the configured thumbnail size.
// Failures are logged and produce no preview; an item without one is still
// worth saving.
func (s *Service) preview(sc scene.Scene) string {
	if s.raster == nil {
		return ""
	}
	cmds := render.Compile(render.SceneFrame(sc, s.previewWidth, s.previewHeight))
	var buf bytes.Buffer
	if err := s.raster.PNG(&buf, cmds, s.previewWidth, s.previewHeight); err != nil {
		slog.Warn("render preview failed", "error", err)
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return title, nil
}

func validScene(sc scene.Scene) (scene.Scene, error) {
	sc = scene.Normalize(sc)
	if err := scene.Validate(sc); err != nil {
		return scene.Scene{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return sc, nil
}
