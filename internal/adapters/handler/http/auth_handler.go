package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports"
)

const accessTokenCookie = "access_token"

type contextKey string

const SessionKey contextKey = "session"

type AuthHandler struct {
	authService    ports.AuthService
	clock          ports.Clock
	cookieDomain   string
	cookieSameSite http.SameSite
}

func NewAuthHandler(authService ports.AuthService, clock ports.Clock, cookieDomain string, cookieSameSite http.SameSite) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		clock:          clock,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required_without=IDToken,max=255"`
	Password string `json:"password" validate:"required_with=Username,max=72"`
	IDToken  string `json:"id_token"`
	Seed     *int64 `json:"seed" validate:"omitempty,min=0"`
}

type loginResponse struct {
	Session     *domain.Session `json:"session"`
	AccessToken string          `json:"access_token"`
}

// Login godoc
// @Summary      Starts an analysis session
// @Description  Verifies the credentials, synthesizes the session dataset and sets the access token cookie used by `/api` calls.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      400
// @Failure      401
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := ports.LoginInput{
		Credentials: domain.Credentials{
			Username: req.Username,
			Password: req.Password,
			IDToken:  req.IDToken,
		},
		Seed: req.Seed,
	}

	session, token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setAccessTokenCookie(w, token, session.ExpiresAt)
	writeJSON(w, r, http.StatusOK, loginResponse{Session: session, AccessToken: token})
}

// Logout godoc
// @Summary      Ends the current session
// @Description  Destroys the session and its dataset and clears the access token cookie
// @Tags         auth
// @Success      200
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := accessToken(r); token != "" {
		if session, err := h.authService.Authenticate(r.Context(), token); err == nil {
			if err := h.authService.Logout(r.Context(), session.ID); err != nil {
				hlog.FromRequest(r).Error().Err(err).Msg("failed to destroy session")
			}
		}
	}

	h.expireCookies(w)
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// RequireSession resolves the access token to a live session and stores it
// in the request context.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := accessToken(r)
		if token == "" {
			http.Error(w, "Unauthorized: missing access token", http.StatusUnauthorized)
			return
		}

		session, err := h.authService.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromRequest(r *http.Request) (*domain.Session, bool) {
	session, ok := r.Context().Value(SessionKey).(*domain.Session)
	return session, ok && session != nil
}

func accessToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   int(expiresAt.Sub(h.clock.Now()).Seconds()),
	})
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, MaxAge: -1, Path: "/", Domain: h.cookieDomain})
}
