package router

import (
	"github.com/eadebayo/delicioso/internal/container"
	handlers "github.com/eadebayo/delicioso/internal/interface/http"
	"github.com/eadebayo/delicioso/internal/router/modules"
)

// InitModules builds the HTTP handlers from the container and registers
// every feature module with the registry. Called once during startup.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger, c.Cfg.CookieDomain, c.Cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(c.Users, c.Logger)
	storeHandler := handlers.NewStoreHandler(c.Stores, c.Reviews, c.Logger)
	reviewHandler := handlers.NewReviewHandler(c.Reviews, c.Logger)
	searchHandler := handlers.NewSearchHandler(c.Search, c.Logger)

	r.Add(
		modules.NewAuthModule(authHandler, c.Auth, c.Redis),
		modules.NewUserModule(userHandler, c.Auth, c.Redis),
		modules.NewStoreModule(storeHandler, searchHandler, c.Auth, c.Redis),
		modules.NewReviewModule(reviewHandler, c.Auth, c.Redis),
	)
}
