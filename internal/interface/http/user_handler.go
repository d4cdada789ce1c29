package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/internal/interface/middleware"
	"github.com/oksasatya/petaverse-auth/pkg/response"
	"github.com/oksasatya/petaverse-auth/pkg/validation"
)

// UserHandler serves the endpoints behind the access guard.
type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,isodate"`
	Country     string `json:"country"`
}

type deleteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AllUsers GET /api/auth/all-users
func (h *UserHandler) AllUsers(c *gin.Context) {
	users, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// UpdateProfile PUT /api/auth/update-profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	in := application.UpdateProfileInput{Name: req.Name, Country: req.Country}
	if req.DateOfBirth != "" {
		dob, err := validation.ParseISODate(req.DateOfBirth)
		if err != nil {
			writeError(c, h.Logger, errBadDateOfBirth, nil)
			return
		}
		in.DateOfBirth = &dob
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), in)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user": gin.H{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		},
	})
}

// Delete DELETE /api/auth/delete
func (h *UserHandler) Delete(c *gin.Context) {
	var req deleteRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.Delete(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"user":    u,
	})
}

// Profile GET /api/auth/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": "Welcome, " + u.Name + "!",
		"user":    u,
	})
}

// SearchUsers GET /api/auth/search-users?q=&size=
func (h *UserHandler) SearchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	docs, err := h.Svc.SearchUsers(c.Request.Context(), q, size)
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.JSON(c, http.StatusOK, gin.H{"users": docs})
}
