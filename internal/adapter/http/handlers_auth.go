package adapthttp

import (
	"errors"
	"net/http"

	"accounts/internal/app"
)

// sessionCookieName is the cookie carrying the session token between client
// and server. HttpOnly keeps it out of reach of client-side script.
const sessionCookieName = "accessToken"

// sessionCookie builds the accessToken cookie. Production gets Secure plus
// SameSite=None for the cross-origin frontend; elsewhere Strict, which works
// for same-origin development without requiring TLS.
func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   maxAge,
	}
	if s.cfg.Production() {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	} else {
		c.SameSite = http.SameSiteStrictMode
	}
	return c
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := parseJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}

	user, err := s.auth.Register(r.Context(), in)
	switch {
	case errors.Is(err, app.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
	case errors.Is(err, app.ErrConflict):
		writeMessage(w, http.StatusConflict, "Username or email already exists.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, envelope{
			Message: "User registered successfully.",
			Success: true,
			Data: map[string]any{
				"id":       user.ID,
				"username": user.Username,
				"role":     user.Role,
			},
		})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Please provide both username and password")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, app.ErrValidation):
		writeMessage(w, http.StatusBadRequest, "Please provide both username and password")
	case errors.Is(err, app.ErrInvalidCredentials):
		// Same body for unknown username and wrong password.
		writeMessage(w, http.StatusBadRequest, "Invalid username or password")
	case err != nil:
		s.internalError(w, r, err)
	default:
		http.SetCookie(w, s.sessionCookie(token, s.cfg.CookieMaxAge()))
		writeJSON(w, http.StatusOK, envelope{
			Message: "Login successful",
			Success: true,
			Data:    user,
		})
	}
}

// handleLogout clears the client-held token. Idempotent: succeeds whether or
// not a cookie was present. The server keeps no revocation list, so a copy of
// a still-valid token stays usable until it expires.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, envelope{Message: "Logout successful", Success: true})
}
