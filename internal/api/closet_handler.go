package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// ClosetHandler handles HTTP requests for a user's closet
type ClosetHandler struct {
	service texturelib.Service
}

// NewClosetHandler creates a new closet handler
func NewClosetHandler(service texturelib.Service) *ClosetHandler {
	return &ClosetHandler{service: service}
}

// Routes returns the routes for the closet
func (h *ClosetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequireUser)

	r.Get("/", h.List)
	r.Post("/{textureID}", h.Add)
	r.Delete("/{textureID}", h.Remove)
	r.Put("/{textureID}/label", h.RenameItem)

	return r
}

// List returns the acting user's closet entries
func (h *ClosetHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListCloset(r.Context(), ActorFromRequest(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*texturelib.ClosetEntry{}
	}
	render.JSON(w, r, entries)
}

// LabelRequest is the request body carrying a closet entry label
type LabelRequest struct {
	Label string `json:"label"`
}

// Add collects a texture into the acting user's closet
func (h *ClosetHandler) Add(w http.ResponseWriter, r *http.Request) {
	id, err := closetTextureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req LabelRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			renderError(w, r, texturelib.ErrInvalidInput)
			return
		}
	}

	if err := h.service.AddToCloset(r.Context(), ActorFromRequest(r), id, req.Label); err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]string{"status": "added"})
}

// Remove detaches a texture from the acting user's closet
func (h *ClosetHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := closetTextureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.service.RemoveFromCloset(r.Context(), ActorFromRequest(r), id); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// RenameItem relabels a closet entry
func (h *ClosetHandler) RenameItem(w http.ResponseWriter, r *http.Request) {
	id, err := closetTextureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	if err := h.service.RenameClosetItem(r.Context(), ActorFromRequest(r), id, req.Label); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func closetTextureID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "textureID"))
	if err != nil {
		return uuid.Nil, texturelib.ErrInvalidInput
	}
	return id, nil
}
