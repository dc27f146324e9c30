package response

import (
	"net/http"

	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// GetOptionalUserID returns the authenticated user ID if present, nil otherwise.
// Used by endpoints that also serve anonymous visitors.
func GetOptionalUserID(c *gin.Context) *uuid.UUID {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return nil
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return nil
	}

	return &userID
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		logger.L().Error("internal error", zap.Error(err))
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
