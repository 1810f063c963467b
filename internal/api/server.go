package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/skinloft/texture-library/pkg/texturelib"
)

// Server assembles all handlers behind a single chi router.
type Server struct {
	service   texturelib.Service
	tokenAuth *jwtauth.JWTAuth
}

// NewServer creates the top-level HTTP server. jwtSecret signs the HS256
// tokens expected in the Authorization header; when empty, all requests
// run as anonymous.
func NewServer(service texturelib.Service, jwtSecret string) *Server {
	s := &Server{service: service}
	if jwtSecret != "" {
		s.tokenAuth = jwtauth.New("HS256", []byte(jwtSecret), nil)
	}
	return s
}

// TokenAuth exposes the JWT authority, mainly for tests that need to
// mint tokens.
func (s *Server) TokenAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

// Routes sets up the HTTP routes
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	if s.tokenAuth != nil {
		r.Use(jwtauth.Verifier(s.tokenAuth))
	}
	r.Use(ActorContext)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Mount("/textures", NewTextureHandler(s.service).Routes())
	r.Mount("/closet", NewClosetHandler(s.service).Routes())
	r.Mount("/players", NewPlayerHandler(s.service).Routes())
	r.Mount("/users", NewUserHandler(s.service).Routes())

	return r
}
