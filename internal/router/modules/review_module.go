package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/eadebayo/delicioso/internal/application"
	handlers "github.com/eadebayo/delicioso/internal/interface/http"
	"github.com/eadebayo/delicioso/internal/interface/middleware"
)

// ReviewModule registers the review routes.
// Public: GET /api/stores/:id/reviews
// Protected: POST /api/stores/:id/reviews, PUT/DELETE /api/reviews/:id
type ReviewModule struct {
	Handler *handlers.ReviewHandler
	Auth    *application.AuthService
	Redis   *redis.Client
}

func NewReviewModule(h *handlers.ReviewHandler, auth *application.AuthService, rdb *redis.Client) *ReviewModule {
	return &ReviewModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *ReviewModule) Register(rg *gin.RouterGroup) {
	rg.GET("/stores/:id/reviews", m.Handler.ListByStore)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("/stores/:id/reviews", m.Handler.Create)
		auth.PUT("/reviews/:id", m.Handler.Update)
		auth.DELETE("/reviews/:id", m.Handler.Delete)
	}
}
