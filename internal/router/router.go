package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	"coursecatalog/internal/auth"
	"coursecatalog/internal/config"
	"coursecatalog/internal/handler"
	"coursecatalog/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gormDB *gorm.DB,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Static course images and placeholders
	e.Static("/assets", cfg.AssetsDir)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		dbStatus := "connected"
		if sqlDB, err := gormDB.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			dbStatus = "unavailable"
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "healthy",
			"database": dbStatus,
		})
	})

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/courses", courseHandler.List)

	// Secured routes: echo-jwt rejects missing/invalid/expired tokens, then
	// ActiveUser resolves the subject to a live user row.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	}), ActiveUser(userRepo, tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateMe)

	secured.GET("/courses/mine", courseHandler.Mine)
	secured.POST("/courses", courseHandler.Create)
	secured.PUT("/courses/:id", courseHandler.Update)
	secured.DELETE("/courses/:id", courseHandler.Delete)

	// Public single-course read; /courses/mine is static and matches first.
	api.GET("/courses/:id", courseHandler.Get)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
