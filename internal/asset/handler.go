package asset

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pitchboard/pitchboard/internal/render"
)

const (
	maxUploadSize = 2 << 20 // 2MB
	maxIconSize   = 1024
)

// IconResponse describes one token icon.
type IconResponse struct {
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Available bool   `json:"available"`
}

// Handler manages the icon images the renderers draw tokens and goals with.
type Handler struct {
	icons *render.IconCache
}

// NewHandler creates a handler storing icons in the cache's directory.
func NewHandler(icons *render.IconCache) *Handler {
	if dir := icons.Dir(); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("create icon dir", "error", err, "dir", dir)
		}
	}
	return &Handler{icons: icons}
}

// Register mounts the icon API on api and the icon files under /icons/ on r.
// Files are only served when an icon directory is configured.
func (h *Handler) Register(r, api *mux.Router) {
	api.HandleFunc("/icons", h.List).Methods("GET")
	api.HandleFunc("/icons/{name}", h.Upload).Methods("PUT")
	api.HandleFunc("/icons/{name}", h.Delete).Methods("DELETE")
	if h.icons.Dir() != "" {
		r.PathPrefix("/icons/").Handler(h.Serve()).Methods("GET")
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	names := render.IconNames()
	out := make([]IconResponse, 0, len(names))
	for _, name := range names {
		resp := IconResponse{Name: name}
		if img, err := h.icons.Get(name); err == nil {
			resp = iconResponse(name, img)
		}
		out = append(out, resp)
	}
	writeJSON(w, http.StatusOK, out)
}

// Upload handles PUT /api/icons/{name} (multipart form with "file" field).
// JPEGs are stored as PNG.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	name, ok := h.iconName(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 2MB)", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/png") && !strings.HasPrefix(contentType, "image/jpeg") {
		http.Error(w, "only PNG and JPEG images are supported", http.StatusBadRequest)
		return
	}

	img, _, err := image.Decode(file)
	if err != nil {
		http.Error(w, "invalid image: "+err.Error(), http.StatusBadRequest)
		return
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 || b.Dx() > maxIconSize || b.Dy() > maxIconSize {
		http.Error(w, fmt.Sprintf("icon must be between 1 and %d pixels on each side", maxIconSize), http.StatusBadRequest)
		return
	}

	if err := writePNG(h.icons.Path(name), img); err != nil {
		slog.Error("save icon", "name", name, "error", err)
		http.Error(w, "failed to save icon", http.StatusInternalServerError)
		return
	}
	h.icons.Forget(name)

	slog.Info("icon uploaded", "name", name, "from", header.Filename)
	writeJSON(w, http.StatusOK, iconResponse(name, img))
}

// Delete removes an uploaded icon. Renderers fall back to vector shapes.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	name, ok := h.iconName(w, r)
	if !ok {
		return
	}
	err := os.Remove(h.icons.Path(name))
	h.icons.Forget(name)
	if errors.Is(err, os.ErrNotExist) {
		http.Error(w, "icon not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("delete icon", "name", name, "error", err)
		http.Error(w, "failed to delete icon", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Serve returns an http.Handler for the stored icon files. Icons can be
// replaced, so clients revalidate.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.icons.Dir()))
	return http.StripPrefix("/icons/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))
}

func (h *Handler) iconName(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h.icons.Dir() == "" {
		http.Error(w, "icons are disabled", http.StatusNotFound)
		return "", false
	}
	name := mux.Vars(r)["name"]
	if !slices.Contains(render.IconNames(), name) {
		http.Error(w, "unknown icon: "+name, http.StatusNotFound)
		return "", false
	}
	return name, true
}

// writePNG encodes img next to path and renames it into place so readers
// never see a partial file.
func writePNG(path string, img image.Image) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".icon-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func iconResponse(name string, img image.Image) IconResponse {
	b := img.Bounds()
	return IconResponse{
		Name:      name,
		URL:       "/icons/" + name + ".png",
		Width:     b.Dx(),
		Height:    b.Dy(),
		Available: true,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
