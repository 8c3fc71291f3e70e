package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"courtside/internal/domain"
	"courtside/internal/identity"
	"courtside/internal/repository"
	"courtside/internal/service"
)

// Handler wires HTTP routes to the account and court flows.
type Handler struct {
	auth     service.AuthFlow
	settings service.Settings
	courts   service.CourtService
	profiles repository.ProfileRepository
	provider identity.Provider
	banners  *service.BannerBoard

	// profileWait bounds how long the dashboard endpoint retries a missing
	// profile record before reporting it missing; zero disables the wait.
	profileWait time.Duration
}

func NewHandler(auth service.AuthFlow, settings service.Settings, courts service.CourtService, profiles repository.ProfileRepository, provider identity.Provider, profileWait time.Duration) *Handler {
	return &Handler{
		auth:        auth,
		settings:    settings,
		courts:      courts,
		profiles:    profiles,
		provider:    provider,
		banners:     service.NewBannerBoard(),
		profileWait: profileWait,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)
		api.POST("/auth/oauth/login", h.oauthLogin)
		api.POST("/auth/oauth/signup", h.oauthSignup)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		authed := api.Group("", h.requireAuth())
		{
			authed.POST("/auth/complete-profile", h.completeProfile)
			authed.POST("/auth/logout", h.logout)
			authed.GET("/dashboard", h.dashboard)
			authed.GET("/settings", h.getSettings)
			authed.PUT("/settings", h.saveSettings)
			authed.GET("/courts", h.listCourts)
			authed.POST("/courts", h.submitCourt)
			authed.GET("/courts/map", h.mapPins)
			authed.GET("/favorites", h.listFavorites)
			authed.PUT("/favorites/:courtID", h.addFavorite)
			authed.DELETE("/favorites/:courtID", h.removeFavorite)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const identityKey = "identity"

func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		ident, err := h.provider.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *domain.Identity {
	v, _ := c.Get(identityKey)
	ident, _ := v.(*domain.Identity)
	return ident
}

type signupRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.auth.SignupWithPassword(c.Request.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, outcomeToResponse(outcome))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.auth.LoginWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcomeToResponse(outcome))
}

type oauthRequest struct {
	Provider string `json:"provider" binding:"required"`
	Token    string `json:"token" binding:"required"`
}

func (h *Handler) oauthLogin(c *gin.Context) {
	h.handleOAuth(c, h.auth.LoginWithOAuth)
}

func (h *Handler) oauthSignup(c *gin.Context) {
	h.handleOAuth(c, h.auth.SignupWithOAuth)
}

func (h *Handler) handleOAuth(c *gin.Context, flow func(ctx context.Context, provider identity.OAuthProvider, token string) (*service.AuthOutcome, error)) {
	var req oauthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := flow(c.Request.Context(), identity.OAuthProvider(req.Provider), req.Token)
	if err != nil {
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcomeToResponse(outcome))
}

type completeProfileRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
}

func (h *Handler) completeProfile(c *gin.Context) {
	var req completeProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.auth.CompleteProfile(c.Request.Context(), currentIdentity(c), service.CompletionInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	})
	if err != nil {
		c.JSON(authErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, outcomeToResponse(outcome))
}

func (h *Handler) logout(c *gin.Context) {
	ident := currentIdentity(c)
	if err := h.provider.SignOut(c.Request.Context(), ident.UID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": service.RouteLanding})
}

func (h *Handler) dashboard(c *gin.Context) {
	ident := currentIdentity(c)

	view, err := domain.ParseDashboardView(c.Query("view"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.awaitProfile(c.Request.Context(), ident.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// authenticated but no record: without a deadline the caller
			// keeps showing the loading state, with one the wait is over
			state := service.StateLoadingProfile
			if h.profileWait > 0 {
				state = service.StateProfileMissing
			}
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found", "state": state})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state":    service.StateReady,
		"view":     view,
		"profile":  profileToResponse(profile),
		"note":     profile.Note,
		"initials": domain.Initials(profile.FirstName, profile.LastName),
	})
}

const profilePollInterval = 100 * time.Millisecond

// awaitProfile retries a missing profile record until the configured wait
// passes. Signup writes the record right after the credential, so the gap
// this papers over is short.
func (h *Handler) awaitProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	profile, err := h.profiles.Get(ctx, uid)
	if h.profileWait <= 0 || !errors.Is(err, repository.ErrNotFound) {
		return profile, err
	}

	deadline := time.NewTimer(h.profileWait)
	defer deadline.Stop()
	ticker := time.NewTicker(profilePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, err
		case <-ticker.C:
		}
		profile, err = h.profiles.Get(ctx, uid)
		if !errors.Is(err, repository.ErrNotFound) {
			return profile, err
		}
	}
}

type outcomeResponse struct {
	Redirect        string           `json:"redirect,omitempty"`
	CompleteProfile bool             `json:"completeProfile,omitempty"`
	Identity        *identityPayload `json:"identity,omitempty"`
	Token           string           `json:"token"`
}

type identityPayload struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

func outcomeToResponse(outcome *service.AuthOutcome) outcomeResponse {
	resp := outcomeResponse{
		Redirect: outcome.Redirect,
		Token:    outcome.Token,
	}
	if outcome.PendingIdentity != nil {
		resp.CompleteProfile = true
		resp.Identity = &identityPayload{
			UID:         outcome.PendingIdentity.UID,
			Email:       outcome.PendingIdentity.Email,
			DisplayName: outcome.PendingIdentity.DisplayName,
		}
	}
	return resp
}

type profileResponse struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func profileToResponse(profile *domain.UserProfile) profileResponse {
	return profileResponse{
		UID:       profile.UID,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Username:  profile.Username,
		Note:      profile.Note,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	}
}

func authErrorStatus(err error) int {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, identity.ErrAccountExists),
		errors.Is(err, service.ErrProfileExists):
		return http.StatusConflict
	case errors.Is(err, identity.ErrUnknownProvider),
		errors.Is(err, service.ErrMissingFields):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
