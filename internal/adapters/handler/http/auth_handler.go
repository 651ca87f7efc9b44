package http

import (
	"encoding/json"
	"net/http"

	"github.com/pollbox/api/internal/core/ports"
)

type AuthHandler struct {
	authService    ports.AuthService
	cookieDomain   string
	cookieSameSite http.SameSite
}

func NewAuthHandler(authService ports.AuthService, cookieDomain string, cookieSameSite http.SameSite) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		cookieDomain:   cookieDomain,
		cookieSameSite: cookieSameSite,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUp godoc
// @Summary      Registers a user with email and password
// @Tags         auth
// @Success      201
// @Failure      400
// @Failure      409
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, err := parseCredentials(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	h.setSessionCookies(w, tokens)
	respondJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// SignIn godoc
// @Summary      Signs a user in with email and password
// @Tags         auth
// @Success      200
// @Failure      401
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	req, err := parseCredentials(r)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	h.setSessionCookies(w, tokens)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Refresh godoc
// @Summary      Issues a fresh access token from the refresh token cookie
// @Tags         auth
// @Success      200
// @Failure      401
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err != nil {
		respondMessage(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.expireCookies(w)
		respondMessage(w, http.StatusUnauthorized, "refresh failed")
		return
	}

	h.setAccessTokenCookie(w, tokens.AccessToken)
	if tokens.RefreshToken != "" && tokens.RefreshToken != cookie.Value {
		h.setRefreshTokenCookie(w, tokens.RefreshToken)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SignOut godoc
// @Summary      Signs the user out and revokes the refresh token
// @Tags         auth
// @Success      200
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("refresh_token")
	if err == nil && cookie.Value != "" {
		_ = h.authService.SignOut(r.Context(), cookie.Value)
	}

	h.expireCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseCredentials(r *http.Request) (credentialsRequest, error) {
	var req credentialsRequest
	if isJSONRequest(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}
	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Email = r.PostForm.Get("email")
	req.Password = r.PostForm.Get("password")
	req.Name = r.PostForm.Get("name")
	return req, nil
}

func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, tokens *ports.TokenPair) {
	h.setAccessTokenCookie(w, tokens.AccessToken)
	h.setRefreshTokenCookie(w, tokens.RefreshToken)
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   15 * 60, // 15 minutes
	})
}

func (h *AuthHandler) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: h.cookieSameSite,
		MaxAge:   7 * 24 * 60 * 60, // 7 days
	})
}

func (h *AuthHandler) expireCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", MaxAge: -1, Path: "/", Domain: h.cookieDomain})
}
