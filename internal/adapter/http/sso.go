package adapthttp

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"accounts/internal/config"
)

// SSO holds the optional OIDC single sign-on configuration. When disabled the
// SSO routes answer 404 and password login is the only way in.
type SSO struct {
	Enabled  bool
	Provider *oidc.Provider
	OAuth2   oauth2.Config
}

// NewSSO discovers the OIDC provider named in cfg. It returns a disabled SSO
// when no issuer or client is configured.
func NewSSO(ctx context.Context, cfg *config.Config) (*SSO, error) {
	if cfg.SSO.Issuer == "" || cfg.SSO.ClientID == "" {
		return &SSO{}, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.SSO.Issuer)
	if err != nil {
		return nil, err
	}
	return &SSO{
		Enabled:  true,
		Provider: provider,
		OAuth2: oauth2.Config{
			ClientID:     cfg.SSO.ClientID,
			ClientSecret: cfg.SSO.ClientSecret,
			RedirectURL:  cfg.SSO.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if !s.sso.Enabled {
		writeMessage(w, http.StatusNotFound, "SSO is not enabled.")
		return
	}
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   300,
	})
	http.Redirect(w, r, s.sso.OAuth2.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if !s.sso.Enabled {
		writeMessage(w, http.StatusNotFound, "SSO is not enabled.")
		return
	}

	state, err := r.Cookie("oauth_state")
	if err != nil || r.URL.Query().Get("state") != state.Value {
		writeMessage(w, http.StatusBadRequest, "Invalid state.")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", MaxAge: -1, Path: "/"})

	token, err := s.sso.OAuth2.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		writeMessage(w, http.StatusInternalServerError, "Internal Server Error.")
		return
	}

	idToken, err := s.sso.Provider.Verifier(&oidc.Config{ClientID: s.sso.OAuth2.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	var claims struct {
		Email string `json:"email"`
		Sub   string `json:"sub"`
	}
	if err := idToken.Claims(&claims); err != nil {
		s.internalError(w, r, err)
		return
	}

	username := claims.Email
	if username == "" {
		username = claims.Sub
	}

	user, err := s.auth.Provision(r.Context(), username, claims.Email)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	sessionToken, err := s.auth.IssueToken(user)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	http.SetCookie(w, s.sessionCookie(sessionToken, s.cfg.CookieMaxAge()))
	http.Redirect(w, r, "/", http.StatusFound)
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
