package item

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pitchboard/pitchboard/internal/scene"
	"github.com/pitchboard/pitchboard/internal/storage"
)

const maxBodySize = 4 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the item routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/items", h.List).Methods("GET")
	r.HandleFunc("/items", h.Create).Methods("POST")
	r.HandleFunc("/items/{itemId}", h.Get).Methods("GET")
	r.HandleFunc("/items/{itemId}", h.Update).Methods("PUT")
	r.HandleFunc("/items/{itemId}", h.Delete).Methods("DELETE")
}

type createRequest struct {
	Title string           `json:"title"`
	Type  storage.ItemType `json:"type"`
	Scene json.RawMessage  `json:"scene"`
}

type updateRequest struct {
	Title *string           `json:"title"`
	Type  *storage.ItemType `json:"type"`
	Scene json.RawMessage   `json:"scene"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list items failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	it, err := h.service.Get(r.Context(), itemID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sc := scene.Default()
	if len(req.Scene) > 0 {
		var err error
		if sc, err = scene.Decode(req.Scene); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	it, err := h.service.Create(r.Context(), CreateInput{Title: req.Title, Type: req.Type, Scene: sc})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	in := UpdateInput{Title: req.Title, Type: req.Type}
	if len(req.Scene) > 0 {
		sc, err := scene.Decode(req.Scene)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		in.Scene = &sc
	}

	it, err := h.service.Update(r.Context(), itemID, in)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]

	if err := h.service.Delete(r.Context(), itemID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
