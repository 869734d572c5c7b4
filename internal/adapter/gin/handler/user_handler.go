package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-auth-service/internal/adapter/gin/middleware"
	"user-auth-service/internal/usecase/user"
	pkgerrors "user-auth-service/pkg/errors"
)

// UserHandler handles HTTP requests for the authenticated user's profile
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// Me handles GET /api/users/me. Requires middleware.Auth in front of it.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		writeError(c, h.log, pkgerrors.NewUnauthorizedError("Unauthorized", nil))
		return
	}

	resp, err := h.uc.GetProfile(c.Request.Context(), user.GetProfileRequest{ID: userID})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:          resp.ID,
		Name:        resp.Name,
		Address:     resp.Address,
		Email:       resp.Email,
		PhoneNumber: resp.PhoneNumber,
	})
}
