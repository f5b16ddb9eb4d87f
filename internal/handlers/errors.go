package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"referral-tracker/internal/services"
)

// statusFor maps a service error kind onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON message. Unclassified errors are logged
// and hidden behind a generic message.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	respondErrorStatus(c, log, err, statusFor(err))
}

func respondErrorStatus(c *gin.Context, log logrus.FieldLogger, err error, status int) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		c.JSON(status, gin.H{"message": svcErr.Message})
		return
	}

	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
}

func badRequestBody(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body."})
}
