package router

import (
	"github.com/labstack/echo/v4"

	"github.com/kennelapp/dog-kennel/internal/domain"
	"github.com/kennelapp/dog-kennel/internal/handler"
	"github.com/kennelapp/dog-kennel/internal/middleware"
)

// Handlers carries every endpoint group the router wires up.
type Handlers struct {
	Home     *handler.HomeHandler
	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Category *handler.CategoryHandler
	Dogs     *handler.DogHandler
	Reviews  *handler.ReviewHandler
}

// Register mounts all routes on the Echo instance.  The public group needs
// no token; everything under /v1 except auth requires a valid access
// token; destructive admin surfaces also pass RequireRole.
func Register(e *echo.Echo, jwtSecret string, rate echo.MiddlewareFunc, h Handlers) {
	if rate != nil {
		e.Use(rate)
	}

	e.GET("/", h.Home.Index)
	e.GET("/healthz", h.Home.Health)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, middleware.JWTAuth(jwtSecret))

	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	v1.GET("/me", h.Auth.Me)

	v1.GET("/users", h.Users.List)
	v1.GET("/users/:id", h.Users.Get)
	v1.DELETE("/users/:id", h.Users.Delete, middleware.RequireRole(domain.RoleAdmin))
	v1.PUT("/profile", h.Users.UpdateProfile)
	v1.POST("/profile/password", h.Users.ChangePassword)
	v1.POST("/profile/genpassword", h.Users.GenerateNewPassword)

	v1.GET("/categories", h.Category.List)
	v1.GET("/categories/search", h.Category.Search)
	v1.GET("/categories/:id/dogs", h.Category.Dogs)
	admin := middleware.RequireRole(domain.RoleAdmin)
	v1.POST("/categories", h.Category.Create, admin)
	v1.PUT("/categories/:id", h.Category.Update, admin)
	v1.DELETE("/categories/:id", h.Category.Delete, admin)

	v1.GET("/dogs", h.Dogs.List)
	v1.GET("/dogs/search", h.Dogs.Search)
	v1.GET("/dogs/deactivated", h.Dogs.ListDeactivated)
	v1.POST("/dogs", h.Dogs.Create)
	v1.GET("/dogs/:id", h.Dogs.Detail)
	v1.PUT("/dogs/:id", h.Dogs.Update)
	v1.DELETE("/dogs/:id", h.Dogs.Delete)
	v1.POST("/dogs/:id/toggle", h.Dogs.ToggleActivity)
	v1.GET("/dogs/:id/reviews", h.Reviews.ListByDog)

	v1.GET("/reviews", h.Reviews.List)
	v1.GET("/reviews/deactivated", h.Reviews.ListDeactivated)
	v1.POST("/reviews", h.Reviews.Create)
	v1.GET("/reviews/:slug", h.Reviews.Detail)
	v1.PUT("/reviews/:slug", h.Reviews.Update)
	v1.DELETE("/reviews/:slug", h.Reviews.Delete)
	v1.POST("/reviews/:slug/toggle", h.Reviews.ToggleActivity)
}
