package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
	"github.com/skinloft/texture-library/pkg/utils"
)

// maxUploadBytes caps texture uploads. HD skins stay well under this.
const maxUploadBytes = 5 << 20

// TextureHandler handles HTTP requests for the texture library
type TextureHandler struct {
	service texturelib.Service
}

// NewTextureHandler creates a new texture handler
func NewTextureHandler(service texturelib.Service) *TextureHandler {
	return &TextureHandler{service: service}
}

// Routes returns the routes for the texture library
func (h *TextureHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Search)
	r.Get("/{id}", h.Info)
	r.Get("/{id}/raw", h.Download)

	r.Group(func(r chi.Router) {
		r.Use(RequireUser)
		r.Post("/", h.Upload)
		r.Put("/{id}/name", h.Rename)
		r.Put("/{id}/kind", h.SetKind)
		r.Put("/{id}/privacy", h.TogglePrivacy)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// UploadResponse is the response body for an upload
type UploadResponse struct {
	Texture  *texturelib.Texture `json:"texture"`
	Repeated bool                `json:"repeated"`
	Cost     int64               `json:"cost"`
}

// Upload stores a new texture from a multipart form with fields
// file, name, type and public.
func (h *TextureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		renderError(w, r, err)
		return
	}
	if len(data) > maxUploadBytes {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	result, err := h.service.Upload(r.Context(), texturelib.UploadRequest{
		Actor:  ActorFromRequest(r),
		Name:   utils.SanitizeName(r.FormValue("name")),
		Kind:   texturelib.TextureKind(r.FormValue("type")),
		Public: r.FormValue("public") == "true",
		Data:   data,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	if !result.Repeated {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, UploadResponse{
		Texture:  result.Texture,
		Repeated: result.Repeated,
		Cost:     result.Cost,
	})
}

// Search lists textures matching the query parameters filter, keyword,
// uploader, sort and page.
func (h *TextureHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := texturelib.SearchRequest{
		Actor:   ActorFromRequest(r),
		Filter:  r.URL.Query().Get("filter"),
		Keyword: r.URL.Query().Get("keyword"),
		SortBy:  r.URL.Query().Get("sort"),
	}
	if raw := r.URL.Query().Get("uploader"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			renderError(w, r, texturelib.ErrInvalidInput)
			return
		}
		req.Uploader = &id
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			renderError(w, r, texturelib.ErrInvalidInput)
			return
		}
		req.Page = page
	}

	page, err := h.service.SearchTextures(r.Context(), req)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// Info returns a texture's catalog record
func (h *TextureHandler) Info(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	texture, err := h.service.GetTexture(r.Context(), ActorFromRequest(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, texture)
}

// Download streams a texture's raw bytes
func (h *TextureHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	data, err := h.service.DownloadTexture(r.Context(), ActorFromRequest(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// RenameRequest is the request body for renaming a texture
type RenameRequest struct {
	Name string `json:"name"`
}

// Rename changes a texture's display name
func (h *TextureHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	if err := h.service.RenameTexture(r.Context(), ActorFromRequest(r), id, req.Name); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// SetKindRequest is the request body for changing a texture's kind
type SetKindRequest struct {
	Kind string `json:"kind"`
}

// SetKind changes a texture's kind
func (h *TextureHandler) SetKind(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req SetKindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	if err := h.service.SetTextureKind(r.Context(), ActorFromRequest(r), id, texturelib.TextureKind(req.Kind)); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// TogglePrivacy flips a texture's visibility and returns the updated
// record
func (h *TextureHandler) TogglePrivacy(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	texture, err := h.service.ToggleVisibility(r.Context(), ActorFromRequest(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, texture)
}

// Delete removes a texture and cascades its references
func (h *TextureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := textureID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.service.DeleteTexture(r.Context(), ActorFromRequest(r), id); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func textureID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, texturelib.ErrInvalidInput
	}
	return id, nil
}
