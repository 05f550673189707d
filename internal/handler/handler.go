package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/postline/backend/internal/errors"
)

// respondError maps a service error onto the wire: the domain code and
// message for known errors, a generic 500 otherwise.
func respondError(c *gin.Context, err error) {
	domainErr := apperrors.GetDomainError(err)
	if domainErr == nil {
		domainErr = apperrors.ErrInternal
	}
	c.JSON(apperrors.ToHTTPStatus(domainErr), gin.H{
		"error":   domainErr.Code,
		"message": domainErr.Message,
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   apperrors.ErrInvalidInput.Code,
		"message": err.Error(),
	})
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		respondBindError(c, err)
		return 0, false
	}
	return uint(id), true
}
