// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"accounts/internal/app"
	"accounts/internal/config"
	"accounts/internal/domain"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth   *app.AuthService
	users  *app.UserService
	tokens *app.TokenService
	sso    *SSO
	cfg    *config.Config
	log    *slog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, users *app.UserService, tokens *app.TokenService, sso *SSO, cfg *config.Config, log *slog.Logger) *Server {
	if sso == nil {
		sso = &SSO{}
	}
	return &Server{auth: auth, users: users, tokens: tokens, sso: sso, cfg: cfg, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthcheck", s.handleHealthcheck)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.HandleFunc("GET /auth/sso/login", s.handleSSOLogin)
	mux.HandleFunc("GET /auth/sso/callback", s.handleSSOCallback)

	mux.HandleFunc("GET /user/greet_admin", s.requireAuth(s.requireRole(domain.RoleAdmin, s.handleGreetAdmin)))
	mux.HandleFunc("GET /user/greet_viewer", s.requireAuth(s.requireRole(domain.RoleViewer, s.handleGreetViewer)))
	mux.HandleFunc("GET /user/get", s.requireAuth(s.handleListUsers))
	mux.HandleFunc("GET /user/getById", s.requireAuth(s.handleGetUser))
	mux.HandleFunc("PUT /user/updateUser", s.requireAuth(s.handleUpdateUser))
	mux.HandleFunc("DELETE /user/deleteUser", s.requireAuth(s.handleDeleteUser))
	mux.HandleFunc("PATCH /user/changePass", s.requireAuth(s.requireRole(domain.RoleAdmin, s.handleChangePassword)))
	mux.HandleFunc("PATCH /user/changeRole/{id}/{newRole}", s.requireAuth(s.requireRole(domain.RoleAdmin, s.handleChangeRole)))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORS.Origin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	return s.loggingMiddleware(c.Handler(mux))
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Message: "Application Healthy"})
}
