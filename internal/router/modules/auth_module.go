package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/eadebayo/delicioso/internal/application"
	handlers "github.com/eadebayo/delicioso/internal/interface/http"
	"github.com/eadebayo/delicioso/internal/interface/middleware"
)

// AuthModule registers the credential and session routes.
// Public: POST /api/register, /api/login, /api/forgot-password, /api/reset-password
// Protected: POST /api/logout, PUT /api/password
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    *application.AuthService
	Redis   *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, auth *application.AuthService, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// credential endpoints get a tight per-IP-and-path budget
	credLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/register", credLimiter, m.Handler.Register)
	rg.POST("/login", credLimiter, m.Handler.Login)
	rg.POST("/forgot-password", credLimiter, m.Handler.ForgotPassword)
	rg.POST("/reset-password", credLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Auth))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.PUT("/password", m.Handler.UpdatePassword)
	}
}
