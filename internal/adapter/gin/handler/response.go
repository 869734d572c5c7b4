package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "user-auth-service/pkg/errors"
)

// MsgInternal is the message of every 500 response.
const MsgInternal = "Something went wrong"

// TokenResponse represents a successful signup or signin
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ErrorResponse represents an error response. Error is set only for
// internal failures.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// writeError converts usecase errors to HTTP responses by kind
func writeError(c *gin.Context, log *zap.Logger, err error) {
	kind := pkgerrors.KindOf(err)
	if kind == pkgerrors.KindInternal {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(kind.HTTPStatus(), ErrorResponse{
			Message: MsgInternal,
			Error:   pkgerrors.Cause(err),
		})
		return
	}

	log.Info("request rejected", zap.String("path", c.FullPath()), zap.Stringer("kind", kind), zap.String("reason", err.Error()))
	c.JSON(kind.HTTPStatus(), ErrorResponse{Message: err.Error()})
}
