package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/petaverse-auth/internal/interface/http"
	"github.com/oksasatya/petaverse-auth/internal/interface/middleware"
)

// UserModule mounts the endpoints behind the access guard.
// GET /all-users, PUT /update-profile, DELETE /delete, GET /profile, GET /search-users
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenVerifier
	Users   middleware.UserLookup
	Redis   *redis.Client
	Logger  *logrus.Logger
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier, users middleware.UserLookup, rdb *redis.Client, logger *logrus.Logger) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens, Users: users, Redis: rdb, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens, m.Users, m.Logger))
	auth.Use(middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil))
	{
		auth.GET("/all-users", m.Handler.AllUsers)
		auth.PUT("/update-profile", m.Handler.UpdateProfile)
		auth.DELETE("/delete", m.Handler.Delete)
		auth.GET("/profile", m.Handler.Profile)
		auth.GET("/search-users", m.Handler.SearchUsers)
	}
}
