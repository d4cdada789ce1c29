package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/petaverse-auth/internal/container"
	"github.com/oksasatya/petaverse-auth/internal/interface/middleware"
)

// NewEngine returns the gin engine with global middleware, the liveness route
// and every module mounted under APIPrefix.
func NewEngine(c *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.Trace(c.Tracer))
	if c.Config.HTTPLogEnabled || c.Config.Env == "development" {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if mw := corsMiddleware(c.Config.CORSOrigins(), c.Config.Env); mw != nil {
		r.Use(mw)
	}

	r.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "API is running...")
	})

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// corsMiddleware allows the configured origins with credentials. With no
// origins configured, development reflects any origin and every other
// environment sends no CORS headers at all.
func corsMiddleware(origins []string, env string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		if env != "development" {
			return nil
		}
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}
