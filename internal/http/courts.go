package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"courtside/internal/domain"
	"courtside/internal/repository"
	"courtside/internal/service"
)

func (h *Handler) getSettings(c *gin.Context) {
	ident := currentIdentity(c)

	profile, err := h.settings.Load(c.Request.Context(), ident.UID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":  profileToResponse(profile),
		"initials": domain.Initials(profile.FirstName, profile.LastName),
		"message":  h.banners.Message(ident.UID),
	})
}

// settingsBannerTTL is how long the save confirmation stays visible.
const settingsBannerTTL = 5 * time.Second

type saveSettingsRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	Username        *string `json:"username"`
	NewPassword     string  `json:"newPassword"`
	ConfirmPassword string  `json:"confirmPassword"`
	AvatarDataURL   *string `json:"avatarDataURL"`
}

func (h *Handler) saveSettings(c *gin.Context) {
	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ident := currentIdentity(c)
	result, err := h.settings.Save(c.Request.Context(), ident.UID, service.SettingsInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Username:        req.Username,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
		AvatarDataURL:   req.AvatarDataURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch),
			errors.Is(err, service.ErrInvalidAvatar):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.banners.Show(ident.UID, result.Message, settingsBannerTTL)

	c.JSON(http.StatusOK, gin.H{
		"profile":       profileToResponse(&result.Profile),
		"displayName":   result.DisplayName,
		"message":       result.Message,
		"avatarDataURL": result.AvatarDataURL,
	})
}

func (h *Handler) listCourts(c *gin.Context) {
	courts, err := h.courts.ListCourts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]courtResponse, len(courts))
	for i := range courts {
		resp[i] = courtToResponse(courts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) submitCourt(c *gin.Context) {
	ident := currentIdentity(c)

	in := service.SubmitCourtInput{
		Name:     c.PostForm("name"),
		Location: c.PostForm("location"),
		ImageURL: c.PostForm("image_url"),
	}
	if lat := c.PostForm("latitude"); lat != "" {
		v, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
			return
		}
		in.Latitude = v
	}
	if lng := c.PostForm("longitude"); lng != "" {
		v, err := strconv.ParseFloat(lng, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
			return
		}
		in.Longitude = v
	}

	if file, err := c.FormFile("image"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		defer f.Close()
		in.Image = f
		in.ImageName = file.Filename
	}

	court, err := h.courts.SubmitCourt(c.Request.Context(), ident.UID, in)
	if err != nil {
		if errors.Is(err, service.ErrNoImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, courtToResponse(*court))
}

func (h *Handler) mapPins(c *gin.Context) {
	pins, err := h.courts.MapPins(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]gin.H, len(pins))
	for i, pin := range pins {
		resp[i] = gin.H{
			"courtId":   pin.CourtID,
			"name":      pin.Name,
			"latitude":  pin.Latitude,
			"longitude": pin.Longitude,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listFavorites(c *gin.Context) {
	ident := currentIdentity(c)

	courts, err := h.courts.ListFavorites(c.Request.Context(), ident.UID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]courtResponse, len(courts))
	for i := range courts {
		resp[i] = courtToResponse(courts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addFavorite(c *gin.Context) {
	ident := currentIdentity(c)

	if err := h.courts.AddFavorite(c.Request.Context(), ident.UID, c.Param("courtID")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "court not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": c.Param("courtID")})
}

func (h *Handler) removeFavorite(c *gin.Context) {
	ident := currentIdentity(c)

	if err := h.courts.RemoveFavorite(c.Request.Context(), ident.UID, c.Param("courtID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": c.Param("courtID")})
}

type courtResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ImageURL    string  `json:"image"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	SubmittedBy string  `json:"submittedBy"`
	CreatedAt   string  `json:"createdAt"`
}

func courtToResponse(court domain.Court) courtResponse {
	return courtResponse{
		ID:          court.ID,
		Name:        court.Name,
		ImageURL:    court.ImageURL,
		Location:    court.Location,
		Latitude:    court.Latitude,
		Longitude:   court.Longitude,
		SubmittedBy: court.SubmittedBy,
		CreatedAt:   court.CreatedAt.Format(time.RFC3339),
	}
}
