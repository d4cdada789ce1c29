package router

import (
	"github.com/oksasatya/petaverse-auth/internal/container"
	handlers "github.com/oksasatya/petaverse-auth/internal/interface/http"
	"github.com/oksasatya/petaverse-auth/internal/router/modules"
)

// InitModules builds the handlers from c and registers their modules.
// Call it once at startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.Service, c.Logger, c.Cookies)
	userHandler := handlers.NewUserHandler(c.Service, c.Logger)

	r.Add(modules.NewAuthModule(authHandler, c.Redis))
	r.Add(modules.NewUserModule(userHandler, c.JWT, c.Users, c.Redis, c.Logger))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
