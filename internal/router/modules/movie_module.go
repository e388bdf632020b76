package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reelist/reelist-api/internal/container"
	handlers "github.com/reelist/reelist-api/internal/interface/http"
	"github.com/reelist/reelist-api/internal/interface/middleware"
	"github.com/reelist/reelist-api/pkg/helpers"
)

// MovieModule wires the watchlist endpoints behind bearer auth.
// All routes operate strictly on the authenticated caller's own entries.

type MovieModule struct {
	Handler *handlers.MovieHandler
	JWT     *helpers.JWTManager
}

func NewMovieModule(h *handlers.MovieHandler, jwt *helpers.JWTManager) *MovieModule {
	return &MovieModule{Handler: h, JWT: jwt}
}

func (m *MovieModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/movies")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		auth.POST("", m.Handler.Add)
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
