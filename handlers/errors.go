package handlers

import (
	"errors"
	"intake/auth"
	"intake/service"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const msgInvalidSubmission = "invalid project submission"

// respondError maps service and auth errors to a status and a generic
// message. Details only go to the log.
func respondError(c *gin.Context, op string, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, service.ErrValidation):
		status, msg = http.StatusBadRequest, msgInvalidSubmission
		if op != "SubmitProject" {
			msg = "invalid request"
		}
	case errors.Is(err, auth.ErrMissingToken):
		status, msg = http.StatusUnauthorized, "authorization token required"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, service.ErrUnauthorized):
		status, msg = http.StatusForbidden, "invalid or expired token"
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "project not found"
	case errors.Is(err, service.ErrAlreadyDecided):
		status, msg = http.StatusConflict, "project has already been decided"
	}

	if status >= http.StatusInternalServerError {
		log.Printf("%s: %v", op, err)
	} else {
		log.Printf("%s: status=%d err=%v", op, status, err)
	}
	c.JSON(status, gin.H{"error": msg})
}
