package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
)

// MaintenanceController handles bulk data operations
type MaintenanceController struct {
	maintenanceService services.MaintenanceService
	logger             zerolog.Logger
}

// NewMaintenanceController creates a new MaintenanceController
func NewMaintenanceController(maintenanceService services.MaintenanceService, logger zerolog.Logger) *MaintenanceController {
	return &MaintenanceController{
		maintenanceService: maintenanceService,
		logger:             logger,
	}
}

// Wipe erases every student, course, book and loan
// @Summary Erase all data
// @Tags maintenance
// @Security BearerAuth
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse
// @Failure 428 {object} dto.ErrorResponse "Confirmation required"
// @Router /data [delete]
func (c *MaintenanceController) Wipe(ctx *gin.Context) {
	if err := c.maintenanceService.Wipe(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Warn().Str("user", middleware.CurrentUser(ctx)).Msg("All records erased")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Successfully erased all the data."))
}
