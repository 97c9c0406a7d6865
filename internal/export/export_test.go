package export

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/pitchboard/pitchboard/internal/command"
	"github.com/pitchboard/pitchboard/internal/geom"
	"github.com/pitchboard/pitchboard/internal/item"
	"github.com/pitchboard/pitchboard/internal/render"
	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/storage"
)

func newExporter(t *testing.T) *Exporter {
	t.Helper()
	raster, err := render.NewRaster(nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewExporter(raster, render.NewSVG(nil))
}

func sampleScene() scene.Scene {
	return command.AddToken(scene.Default(), scene.LayerTactics, scene.TokenPlayer, geom.Pt(30, 30)).Scene
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{" PNG ", FormatPNG, false},
		{"svg", FormatSVG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.err || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if tt.err && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) err = %v, want ErrUnknownFormat", tt.in, err)
		}
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		w, h, wantW, wantH int
	}{
		{0, 0, DefaultWidth, DefaultHeight},
		{800, 0, DefaultWidth, DefaultHeight},
		{800, 600, 800, 600},
		{10000, 600, MaxSize, 600},
	}
	for _, tt := range tests {
		if w, h := Size(tt.w, tt.h); w != tt.wantW || h != tt.wantH {
			t.Errorf("Size(%d, %d) = %d, %d", tt.w, tt.h, w, h)
		}
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		title string
		f     Format
		want  string
	}{
		{"Rondo 4v2", FormatPNG, "Rondo-4v2.png"},
		{"../etc/passwd", FormatJSON, "---etc-passwd.json"},
		{"  ", FormatSVG, "diagram.svg"},
		{"???", FormatSVG, "diagram.svg"},
	}
	for _, tt := range tests {
		if got := Filename(tt.title, tt.f); got != tt.want {
			t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestJSONRoundTrips(t *testing.T) {
	sc := sampleScene()
	var buf bytes.Buffer
	if err := JSON(&buf, sc); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"pitch\"") {
		t.Errorf("output not indented:\n%s", buf.String())
	}
	got, err := scene.Decode(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if !scene.Equal(got, sc) {
		t.Error("decoded export differs from the scene")
	}
}

func TestPNGSize(t *testing.T) {
	var buf bytes.Buffer
	if err := newExporter(t).PNG(&buf, sampleScene(), 320, 200); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("bounds = %v", b)
	}
}

func TestSVGDefaultSize(t *testing.T) {
	var buf bytes.Buffer
	if err := newExporter(t).Write(&buf, FormatSVG, sampleScene(), 0, 0); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `width="1050"`) || !strings.Contains(out, "<path") {
		t.Errorf("unexpected svg:\n%.300s", out)
	}
}

func TestHandler(t *testing.T) {
	ctx := context.Background()
	store, err := storage.OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	items := item.NewService(store, nil, 0, 0)
	it, err := items.Create(ctx, item.CreateInput{Title: "High press", Type: storage.ItemTactics, Scene: sampleScene()})
	if err != nil {
		t.Fatal(err)
	}

	r := mux.NewRouter()
	NewHandler(items, newExporter(t)).Register(r.PathPrefix("/api").Subrouter())

	tests := []struct {
		name        string
		query       string
		status      int
		contentType string
		filename    string
	}{
		{"default json", "", http.StatusOK, "application/json", "High-press.json"},
		{"png", "?format=png&width=210&height=136", http.StatusOK, "image/png", "High-press.png"},
		{"svg", "?format=svg", http.StatusOK, "image/svg+xml", "High-press.svg"},
		{"bad format", "?format=gif", http.StatusBadRequest, "", ""},
		{"bad width", "?format=png&width=wide", http.StatusBadRequest, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items/"+it.ID+"/export"+tt.query, nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("content type = %q", ct)
			}
			if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, tt.filename) {
				t.Errorf("disposition = %q, want %q", cd, tt.filename)
			}
			if rec.Body.Len() == 0 {
				t.Error("empty body")
			}
		})
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/items/item_missing/export", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing item status = %d", rec.Code)
	}
}
