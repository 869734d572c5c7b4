package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-auth-service/internal/usecase/auth"
)

// AuthHandler handles HTTP requests for signup and signin
type AuthHandler struct {
	uc  auth.Usecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Usecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:  uc,
		log: log,
	}
}

// SignupRequest represents the HTTP request body for creating an account
type SignupRequest struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phoneNumber"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SigninRequest represents the HTTP request body for signing in
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid signup request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.uc.Signup(c.Request.Context(), auth.SignupRequest{
		Name:            req.Name,
		Address:         req.Address,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{
		Message: "User created successfully",
		Token:   resp.Token,
	})
}

// Signin handles POST /api/users/signin
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid signin request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body"})
		return
	}

	resp, err := h.uc.Signin(c.Request.Context(), auth.SigninRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Message: "Logged in successfully",
		Token:   resp.Token,
	})
}
