package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/eadebayo/delicioso/internal/application"
	handlers "github.com/eadebayo/delicioso/internal/interface/http"
	"github.com/eadebayo/delicioso/internal/interface/middleware"
)

// UserModule registers the profile and favourites routes, all protected.
// GET/PUT /api/profile, DELETE /api/profile,
// POST /api/stores/:id/heart, GET /api/hearts
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.AuthService
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthService, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	auth.Use(middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile", m.Handler.Deactivate)
		auth.POST("/stores/:id/heart", m.Handler.ToggleHeart)
		auth.GET("/hearts", m.Handler.Hearts)
	}
}
