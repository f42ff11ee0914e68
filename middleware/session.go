package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-ID"

// Session gives every request a cart session id. Clients keep the id from
// the response header and send it back; a missing or malformed id gets a
// fresh one.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set("sessionID", id)
		c.Header(SessionHeader, id)
		c.Next()
	}
}

func GetSessionID(c *gin.Context) string {
	return c.GetString("sessionID")
}
