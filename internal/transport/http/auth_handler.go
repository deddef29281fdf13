package handlers

import (
	"net/http"

	"lifequest/internal/application/usecase"
	"lifequest/internal/domain"
	"lifequest/internal/infrastructure/security"

	"github.com/gin-gonic/gin"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	auth         *usecase.AuthUseCase
	secureCookie bool
}

func NewAuthHandler(auth *usecase.AuthUseCase, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int          `json:"expiresIn"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, tokens, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens)
	respond(c, http.StatusCreated, authResponse{User: user, AccessToken: tokens.AccessToken, ExpiresIn: tokens.ExpiresIn})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, tokens, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens)
	respond(c, http.StatusOK, authResponse{User: user, AccessToken: tokens.AccessToken, ExpiresIn: tokens.ExpiresIn})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookie)
	if err != nil || refreshToken == "" {
		fail(c, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens)
	respond(c, http.StatusOK, gin.H{"accessToken": tokens.AccessToken, "expiresIn": tokens.ExpiresIn})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookie)
	if err := h.auth.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, "", -1, "/", "", h.secureCookie, true)
	respondMessage(c, http.StatusOK, "Logged out")
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, user)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, tokens security.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, tokens.RefreshToken, int(security.RefreshTTL.Seconds()), "/", "", h.secureCookie, true)
}
