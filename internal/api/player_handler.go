package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// PlayerHandler handles HTTP requests for player profiles
type PlayerHandler struct {
	service texturelib.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(service texturelib.Service) *PlayerHandler {
	return &PlayerHandler{service: service}
}

// Routes returns the routes for players
func (h *PlayerHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequireUser)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{playerID}", h.Get)
	r.Put("/{playerID}/equip", h.Equip)
	r.Delete("/{playerID}/equip/{slot}", h.ClearEquip)

	return r
}

// CreatePlayerRequest is the request body for creating a player
type CreatePlayerRequest struct {
	Name string `json:"name"`
}

// Create registers a new player profile for the acting user
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	player, err := h.service.CreatePlayer(r.Context(), texturelib.CreatePlayerRequest{
		Actor: ActorFromRequest(r),
		Name:  req.Name,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, player)
}

// List returns the acting user's players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.service.ListPlayers(r.Context(), ActorFromRequest(r))
	if err != nil {
		renderError(w, r, err)
		return
	}
	if players == nil {
		players = []*texturelib.Player{}
	}
	render.JSON(w, r, players)
}

// Get returns a single player
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	player, err := h.service.GetPlayer(r.Context(), ActorFromRequest(r), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, player)
}

// EquipRequest is the request body for equipping a texture
type EquipRequest struct {
	TextureID uuid.UUID `json:"texture_id"`
}

// Equip applies a texture to the matching slot of a player
func (h *PlayerHandler) Equip(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req EquipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	if err := h.service.SetEquippedTexture(r.Context(), ActorFromRequest(r), id, req.TextureID); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// ClearEquip resets one equip slot of a player
func (h *PlayerHandler) ClearEquip(w http.ResponseWriter, r *http.Request) {
	id, err := playerID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slot := texturelib.EquipSlot(chi.URLParam(r, "slot"))
	if slot != texturelib.SlotSkin && slot != texturelib.SlotCape {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	if err := h.service.ClearEquippedTexture(r.Context(), ActorFromRequest(r), id, slot); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func playerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "playerID"))
	if err != nil {
		return uuid.Nil, texturelib.ErrInvalidInput
	}
	return id, nil
}
