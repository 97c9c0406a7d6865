package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/scene"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func sampleScene() scene.Scene {
	s := scene.Default()
	s = command.AddToken(s, scene.LayerTactics, scene.TokenPlayer, geom.Pt(20, 30)).Scene
	s = command.BeginLine(s, scene.LayerDrills, geom.Pt(10, 10)).Scene
	return s
}

func openSQLite(t *testing.T, clock *fakeClock) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "items.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	s.now = clock.Now
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	clock := newClock()
	testStore(t, openSQLite(t, clock), clock)
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("PITCHBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("PITCHBOARD_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, url)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if _, err := s.pool.Exec(ctx, `DELETE FROM saved_items`); err != nil {
		t.Fatalf("reset table: %v", err)
	}
	clock := newClock()
	s.now = clock.Now
	testStore(t, s, clock)
}

// testStore runs the behaviour every backend must share.
func testStore(t *testing.T, s Store, clock *fakeClock) {
	ctx := context.Background()

	saved, err := s.Save(ctx, Item{Title: "Pressing drill", Type: ItemTraining, Scene: sampleScene(), Preview: "data:image/png;base64,AAAA"})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(saved.ID, "item_") {
		t.Errorf("id = %q, want item_ prefix", saved.ID)
	}
	if !saved.CreatedAt.Equal(clock.Now()) || !saved.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("timestamps = %v / %v, want %v", saved.CreatedAt, saved.UpdatedAt, clock.Now())
	}

	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != saved.Title || got.Type != ItemTraining || got.Preview != saved.Preview {
		t.Errorf("Get = %+v", got)
	}
	if !scene.Equal(got.Scene, saved.Scene) {
		t.Error("scene changed by round trip")
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("createdAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}

	if _, err := s.Get(ctx, "item_missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing err = %v, want ErrNotFound", err)
	}

	clock.Advance(time.Minute)
	second, err := s.Save(ctx, Item{Title: "Back four", Type: ItemTactics, Scene: scene.Default()})
	if err != nil {
		t.Fatalf("Save second: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != saved.ID {
		t.Fatalf("List order = %v, want newest first", ids(list))
	}

	clock.Advance(time.Minute)
	title := "Pressing drill v2"
	updated, err := s.Update(ctx, saved.ID, ItemUpdate{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != title || updated.Type != ItemTraining || !scene.Equal(updated.Scene, saved.Scene) {
		t.Errorf("Update merged wrongly: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(clock.Now()) || !updated.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("Update timestamps = %v / %v", updated.CreatedAt, updated.UpdatedAt)
	}

	list, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if list[0].ID != saved.ID {
		t.Errorf("List after update = %v, want updated item first", ids(list))
	}

	if _, err := s.Update(ctx, "item_missing", ItemUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing err = %v, want ErrNotFound", err)
	}

	if err := s.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	if err := s.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
}

func ids(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestSQLiteStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "items.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := s.Save(ctx, Item{ID: "item_fixed", Title: "Kept", Type: ItemTactics, Scene: sampleScene()})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, "item_fixed")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !scene.Equal(got.Scene, saved.Scene) {
		t.Error("scene lost across reopen")
	}
}

func TestSQLiteStoreNormalizesLegacyScenes(t *testing.T) {
	s := openSQLite(t, newClock())
	ctx := context.Background()

	legacy := scene.Default()
	legacy.Pitch = scene.Pitch{Type: scene.PitchType("smallSided")}
	saved, err := s.Save(ctx, Item{Title: "Old", Type: ItemTactics, Scene: legacy})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scene.Pitch.Type != scene.PitchFree || got.Scene.Pitch.Orientation != scene.OrientationHorizontal {
		t.Errorf("pitch = %+v, want free horizontal", got.Scene.Pitch)
	}
}

func TestSQLiteStoreInMemory(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	list, err := s.List(context.Background())
	if err != nil || len(list) != 0 {
		t.Errorf("List = %v, %v; want empty", list, err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), "mongo", ""); !errors.Is(err, ErrUnknownDriver) {
		t.Errorf("err = %v, want ErrUnknownDriver", err)
	}
}
