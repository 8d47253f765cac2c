package router

import "github.com/gin-gonic/gin"

// Module is one feature area of the directory API (auth, users, stores,
// reviews). Each module owns its routes and per-route middleware and mounts
// them on the shared /api group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
