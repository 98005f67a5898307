package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aulanet/aulanet-api/internal/middleware"
	"github.com/aulanet/aulanet-api/internal/models"
	appErrors "github.com/aulanet/aulanet-api/pkg/errors"
)

// claimsFromContext extracts the authenticated user's claims.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, appErrors.ErrUnauthorized
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return claims, nil
}

// pathID parses a numeric path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, name+" must be a positive integer")
	}
	return id, nil
}
