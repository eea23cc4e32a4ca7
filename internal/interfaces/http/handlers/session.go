// internal/interfaces/http/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookieName = "session_id"

// getOrCreateSessionID gets the session ID from the cookie or creates a new one
func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie(sessionCookieName)
	if err != nil || sessionID == "" {
		// Generate new session ID
		sessionID = uuid.New().String()

		// Set session cookie (24 hours)
		c.SetCookie(sessionCookieName, sessionID, 86400, "/", "", false, true)
	}

	return sessionID
}
