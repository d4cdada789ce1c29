package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/pkg/response"
	"github.com/oksasatya/petaverse-auth/pkg/validation"
)

var statusByKind = map[application.Kind]int{
	application.KindValidation:        http.StatusBadRequest,
	application.KindConflict:          http.StatusConflict,
	application.KindNotFound:          http.StatusNotFound,
	application.KindInvalidCredential: http.StatusUnauthorized,
	application.KindForbidden:         http.StatusForbidden,
	application.KindUnauthenticated:   http.StatusUnauthorized,
	application.KindInternal:          http.StatusInternalServerError,
}

// StatusOf maps a service error to its HTTP status.
func StatusOf(err error) int {
	if s, ok := statusByKind[application.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError replies with the client-facing message of err. Internal causes are
// logged and replaced by a generic message. override, when non-nil, may change
// the status for specific kinds.
func writeError(c *gin.Context, logger *logrus.Logger, err error, override map[application.Kind]int) {
	kind := application.KindOf(err)
	status := StatusOf(err)
	if s, ok := override[kind]; ok {
		status = s
	}
	if kind == application.KindInternal && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
	}
	response.Error(c, status, application.MessageOf(err))
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, nil, application.Validation(validation.FirstMessage(err)), nil)
		return false
	}
	return true
}

var errBadDateOfBirth = application.Validation(`"dateOfBirth" must be in ISO 8601 date format`)
