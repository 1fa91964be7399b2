package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinova/internal/core/apperror"
	"clinova/internal/domain/settings"
	"clinova/internal/infrastructure/http/v1/dto"
)

// SettingsHandler handles the company profile and key/value settings.
type SettingsHandler struct {
	*BaseHandler
	service *settings.Service
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(base *BaseHandler, service *settings.Service) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetEntreprise handles GET /settings/entreprise
func (h *SettingsHandler) GetEntreprise(c *gin.Context) {
	ctx := c.Request.Context()

	entreprise, err := h.service.GetEntreprise(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntreprise(entreprise))
}

// SaveEntreprise handles PUT /settings/entreprise
func (h *SettingsHandler) SaveEntreprise(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SaveEntrepriseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entreprise := req.ToEntity()
	if err := h.service.SaveEntreprise(ctx, entreprise); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromEntreprise(entreprise))
}

// ListSettings handles GET /settings
func (h *SettingsHandler) ListSettings(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.ListSettings(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetSetting handles GET /settings/:key
func (h *SettingsHandler) GetSetting(c *gin.Context) {
	ctx := c.Request.Context()

	setting, err := h.service.GetSetting(ctx, c.Param("key"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, setting)
}

// SetSetting handles PUT /settings/:key
func (h *SettingsHandler) SetSetting(c *gin.Context) {
	ctx := c.Request.Context()

	key := c.Param("key")
	if key == "" {
		h.Error(c, apperror.NewValidation("setting key is required"))
		return
	}

	var req dto.SetSettingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetSetting(ctx, key, req.Value); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "setting updated")
}
