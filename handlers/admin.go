package handlers

import (
	"errors"
	"intake/auth"
	"intake/models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Login(authn *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		token, expiresAt, err := authn.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.Printf("Login: rejected credentials from %s", c.ClientIP())
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, "Login", err)
			return
		}

		c.JSON(http.StatusOK, models.LoginResponse{
			Token:     token,
			ExpiresAt: expiresAt,
		})
	}
}
