package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/petaverse-auth/internal/application"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
	"github.com/oksasatya/petaverse-auth/pkg/response"
	"github.com/oksasatya/petaverse-auth/pkg/validation"
)

// AuthHandler serves the public endpoints: register, verify and login.
type AuthHandler struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,isodate"`
	Country     string `json:"country" binding:"required"`
}

type verifyRequest struct {
	Email                string `json:"email" binding:"required,email"`
	OTPVerificationToken string `json:"otpVerificationToken" binding:"required,len=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// a wrong code on verify is a bad request, not an auth failure
var verifyOverrides = map[application.Kind]int{
	application.KindInvalidCredential: http.StatusBadRequest,
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	dob, err := validation.ParseISODate(req.DateOfBirth)
	if err != nil {
		writeError(c, h.Logger, errBadDateOfBirth, nil)
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		DateOfBirth: dob,
		Country:     req.Country,
	})
	if err != nil {
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message": "User registered successfully. Verification OTP token sent to email",
		"user": gin.H{
			"name":  u.Name,
			"email": u.Email,
		},
	})
}

// Verify POST /api/auth/verify
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.Svc.Verify(c.Request.Context(), application.VerifyInput{
		Email: req.Email,
		Code:  req.OTPVerificationToken,
	})
	if err != nil {
		writeError(c, h.Logger, err, verifyOverrides)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	response.JSON(c, http.StatusCreated, gin.H{
		"message": "User verified successfully",
		"user": gin.H{
			"name":       sess.User.Name,
			"isVerified": sess.User.IsVerified,
		},
	})
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Cookies.Clear(c)
		writeError(c, h.Logger, application.Validation(validation.FirstMessage(err)), nil)
		return
	}
	sess, err := h.Svc.Login(c.Request.Context(), application.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch application.KindOf(err) {
		case application.KindNotFound, application.KindForbidden:
			h.Cookies.Clear(c)
		}
		writeError(c, h.Logger, err, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"token": sess.Token,
		"user":  sess.User.Name,
	})
}
