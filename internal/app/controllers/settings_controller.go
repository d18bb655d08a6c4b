package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
)

// SettingsController exposes the shared preferences
type SettingsController struct {
	settingsService services.SettingsService
}

// NewSettingsController creates a new SettingsController
func NewSettingsController(settingsService services.SettingsService) *SettingsController {
	return &SettingsController{
		settingsService: settingsService,
	}
}

// Get returns the current preferences
// @Summary Get settings
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Preferences}
// @Router /settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.settingsService.Get(ctx.Request.Context()), ""))
}

// Update changes the theme or the default tab
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "Preferences to change"
// @Success 200 {object} dto.APIResponse{data=models.Preferences}
// @Failure 400 {object} dto.ErrorResponse "Invalid setting value"
// @Router /settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(ctx, "Invalid settings data", err.Error())
		return
	}

	prefs, err := c.settingsService.Update(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(prefs, "Settings saved."))
}
