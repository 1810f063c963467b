package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// UserHandler handles HTTP requests for user accounts
type UserHandler struct {
	service texturelib.Service
}

// NewUserHandler creates a new user handler
func NewUserHandler(service texturelib.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Routes returns the routes for users
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Register)
	r.Get("/{userID}", h.Get)
	r.Get("/{userID}/badges", h.Badges)

	return r
}

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Nickname string `json:"nickname"`
}

// Register creates a new user account with the starting score balance
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, texturelib.ErrInvalidInput)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), texturelib.RegisterUserRequest{
		Nickname: req.Nickname,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, user)
}

// Get returns a user account
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// Badges returns the badges granted to a user by registered hooks
func (h *UserHandler) Badges(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	badges, err := h.service.GetUserBadges(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}
	if badges == nil {
		badges = []texturelib.Badge{}
	}
	render.JSON(w, r, badges)
}

func userID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return uuid.Nil, texturelib.ErrInvalidInput
	}
	return id, nil
}
