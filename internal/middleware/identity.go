package middleware

import (
	"github.com/gin-gonic/gin"
)

// ActorHeader carries the caller identity set by the upstream auth gateway.
// Authentication itself happens before requests reach this service.
const ActorHeader = "X-User-Id"

// Identity extracts the acting user from the gateway header and stores it
// in the request context for handlers and audit logging.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(ActorHeader); id != "" {
			c.Set("actor", id)
		}
		c.Next()
	}
}
