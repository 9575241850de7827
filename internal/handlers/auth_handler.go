package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/appointment-intake/internal/middleware"
	"github.com/harentsoaR/appointment-intake/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a non-admin user and logs them in.
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Credentials.CreateUser(ctx, req.Username, req.Password, false)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Int("userId", user.ID).Str("username", user.Username).Msg("user registered")

	token, err := h.Sessions.Establish(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token, user, err := h.Sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout ends the current session, if there is one.
func (h *Handler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c); token != "" {
		if err := h.Sessions.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// CurrentUser returns the user behind the session.
func (h *Handler) CurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, models.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, token, int(h.Sessions.TTL().Seconds()), "/", "", h.CookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.CookieSecure, true)
}
