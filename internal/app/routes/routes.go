package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusrecords/internal/app/controllers"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/middleware"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Student     *controllers.StudentController
	Course      *controllers.CourseController
	Library     *controllers.LibraryController
	Exchange    *controllers.ExchangeController
	Settings    *controllers.SettingsController
	Maintenance *controllers.MaintenanceController
}

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	c Controllers,
	authMiddleware *middleware.AuthMiddleware,
	metrics *middleware.Metrics,
	health HealthCheck,
	adminUsername string,
) {
	router.GET("/metrics", metrics.Handler())

	// API version group
	v1 := router.Group("/api/v1")

	// Health check endpoint (public)
	v1.GET("/health", func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		if err := health(checkCtx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	confirm := middleware.RequireConfirmation()
	adminOnly := authMiddleware.AdminOnly(adminUsername)

	authenticated.PUT("/auth/password", c.Auth.ChangePassword)

	users := authenticated.Group("/users")
	users.Use(adminOnly)
	{
		users.GET("", c.User.List)
		users.DELETE("/:username", confirm, c.User.Remove)
	}

	// Accounts: admission, records, fees and the student side of the library
	students := authenticated.Group("/students")
	{
		students.POST("", c.Student.Admit)
		students.GET("/:enrollmentNo", c.Student.Get)
		students.PUT("/:enrollmentNo", c.Student.Update)
		students.DELETE("/:enrollmentNo", c.Student.Remove)

		students.GET("/:enrollmentNo/fee", c.Student.FeeSummary)
		students.POST("/:enrollmentNo/fee-deposits", c.Student.Deposit)

		students.GET("/:enrollmentNo/lendable-books", c.Library.LendableBooks)
		students.GET("/:enrollmentNo/loans", c.Library.Loans)
		students.POST("/:enrollmentNo/loans", c.Library.Lend)
		students.POST("/:enrollmentNo/returns", c.Library.Return)
	}

	courses := authenticated.Group("/courses")
	{
		courses.POST("", c.Course.Create)
		courses.GET("", c.Course.List)
		courses.GET("/:id", c.Course.Get)
		courses.PUT("/:id", c.Course.Update)
		courses.DELETE("/:id", confirm, c.Course.Remove)
	}

	books := authenticated.Group("/books")
	{
		books.POST("", c.Library.AddBook)
		books.GET("", c.Library.ListBooks)
		books.DELETE("/:id", confirm, c.Library.RemoveBook)
		books.PATCH("/:id/stock", c.Library.UpdateStock)
	}

	exchange := authenticated.Group("/exchange")
	{
		exchange.GET("/export", c.Exchange.Export)
		exchange.POST("/import", c.Exchange.Import)
	}

	settings := authenticated.Group("/settings")
	{
		settings.GET("", c.Settings.Get)
		settings.PUT("", c.Settings.Update)
	}

	authenticated.DELETE("/data", adminOnly, confirm, c.Maintenance.Wipe)
}
