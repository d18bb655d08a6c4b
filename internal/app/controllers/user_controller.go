package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/app/services"
	"github.com/yigit/campusrecords/internal/middleware"
)

// UserController handles staff account administration
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// List returns every account without password hashes
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse}
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users, ""))
}

// Remove deletes an account; the seeded admin is protected
// @Summary Remove a user
// @Tags users
// @Security BearerAuth
// @Param username path string true "Username"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Admin account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 428 {object} dto.ErrorResponse "Confirmation required"
// @Router /users/{username} [delete]
func (c *UserController) Remove(ctx *gin.Context) {
	if err := c.userService.Remove(ctx.Request.Context(), ctx.Param("username")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Successfully removed the user."))
}
