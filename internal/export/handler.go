package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pitchboard/pitchboard/internal/item"
)

type Handler struct {
	items    *item.Service
	exporter *Exporter
}

func NewHandler(items *item.Service, exporter *Exporter) *Handler {
	return &Handler{items: items, exporter: exporter}
}

// Register mounts the export route on r, normally the /api subrouter.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/items/{itemId}/export", h.Export).Methods("GET")
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["itemId"]
	q := r.URL.Query()

	format, err := ParseFormat(q.Get("format"))
	if err != nil {
		http.Error(w, "invalid format: must be json, png, or svg", http.StatusBadRequest)
		return
	}
	width, err := dimension(q.Get("width"))
	if err != nil {
		http.Error(w, "invalid width", http.StatusBadRequest)
		return
	}
	height, err := dimension(q.Get("height"))
	if err != nil {
		http.Error(w, "invalid height", http.StatusBadRequest)
		return
	}

	it, err := h.items.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		slog.Error("load item for export", "id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Render fully before writing so a failure can still produce a 500.
	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, format, it.Scene, width, height); err != nil {
		slog.Error("export failed", "id", id, "format", format, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	slog.Info("export complete", "id", id, "format", format, "size", buf.Len())

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, Filename(it.Title, format)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func dimension(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	return n, nil
}
