package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "lift/internal/errors"
	"lift/internal/services"
)

// SettingHandler handles system settings requests.
type SettingHandler struct {
	settingService services.SettingServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// SetSettingRequest represents the request payload for upserting a setting
type SetSettingRequest struct {
	Value       string `json:"value" binding:"required,max=255"`
	Description string `json:"description" binding:"max=500"`
}

// SettingResponse represents a setting in the response
type SettingResponse struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// GetSetting handles the retrieval of a setting
// @Summary     Get setting
// @Description Get a system setting by key
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       key path string true "Setting key"
// @Success     200 {object} SettingResponse "Setting"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     404 {object} ErrorResponse "Setting not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/{key} [get]
func (h *SettingHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "setting key is required"))
		return
	}

	setting, err := h.settingService.Get(key)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}

// SetSetting handles upserting a setting
// @Summary     Set setting
// @Description Create or update a system setting. The basic-split key only accepts a number between 0 and 100; the new default applies to basic contributions recorded from then on.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       key     path string            true "Setting key"
// @Param       request body SetSettingRequest true "Setting value"
// @Success     200 {object} SettingResponse "Upserted setting"
// @Failure     400 {object} ErrorResponse "Invalid input or value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Admin only"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /settings/{key} [put]
func (h *SettingHandler) SetSetting(c *gin.Context) {
	adminID, err := getMemberID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	key := c.Param("key")
	if key == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "setting key is required"))
		return
	}

	var req SetSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	setting, err := h.settingService.Set(key, req.Value, req.Description, adminID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"setting": setting})
}
