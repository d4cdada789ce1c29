package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
	"github.com/oksasatya/petaverse-auth/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	ParseToken(token string) (*helpers.Claims, error)
}

// UserLookup resolves the user id carried by a token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// Auth requires "Authorization: Bearer <token>", verifies the token and loads
// the user it names. Every verification failure, including a token for a
// deleted user, gets the same 401. On success the user is stored under CtxUserKey.
func Auth(tokens TokenVerifier, users UserLookup, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abort(c, application.ErrNoToken)
			return
		}
		claims, err := tokens.ParseToken(token)
		if err != nil {
			abort(c, application.ErrTokenInvalid)
			return
		}
		u, err := users.GetByID(c.Request.Context(), claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			abort(c, application.ErrTokenInvalid)
			return
		}
		if err != nil {
			if logger != nil {
				logger.WithError(err).WithField("user_id", claims.UserID).Error("resolve token user failed")
			}
			abort(c, err)
			return
		}

		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// abort answers 401 for unauthenticated errors and 500 for anything else.
func abort(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if application.KindOf(err) == application.KindUnauthenticated {
		status = http.StatusUnauthorized
	}
	response.Error(c, status, application.MessageOf(err))
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
