package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/eadebayo/delicioso/internal/application"
	handlers "github.com/eadebayo/delicioso/internal/interface/http"
	"github.com/eadebayo/delicioso/internal/interface/middleware"
)

// StoreModule registers the directory routes.
// Public reads: GET /api/stores, /api/stores/:id, /api/stores/slug/:slug,
// /api/stores/tags, /api/stores/tags/:tag, /api/stores/top,
// /api/stores/search, /api/stores/near,
// /api/stores/within/:distance/center/:latlng/unit/:unit,
// /api/stores/distances/:latlng/unit/:unit
// Protected: POST /api/stores, PUT/DELETE /api/stores/:id, GET /api/stores/stats
type StoreModule struct {
	Handler *handlers.StoreHandler
	Search  *handlers.SearchHandler
	Auth    *application.AuthService
	Redis   *redis.Client
}

func NewStoreModule(h *handlers.StoreHandler, search *handlers.SearchHandler, auth *application.AuthService, rdb *redis.Client) *StoreModule {
	return &StoreModule{Handler: h, Search: search, Auth: auth, Redis: rdb}
}

func (m *StoreModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP())

	stores := rg.Group("/stores")
	stores.Use(readLimiter)
	{
		stores.GET("", m.Handler.List)
		stores.GET("/slug/:slug", m.Handler.GetBySlug)
		stores.GET("/tags", m.Handler.TagCounts)
		stores.GET("/tags/:tag", m.Handler.ListByTag)
		stores.GET("/top", m.Handler.TopRated)
		stores.GET("/search", m.Search.Text)
		stores.GET("/near", m.Search.Near)
		stores.GET("/within/:distance/center/:latlng/unit/:unit", m.Search.Within)
		stores.GET("/distances/:latlng/unit/:unit", m.Search.Distances)
		stores.GET("/:id", m.Handler.Get)
	}

	auth := rg.Group("/stores")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
		auth.GET("/stats", m.Handler.StatsByAuthor)
	}
}
