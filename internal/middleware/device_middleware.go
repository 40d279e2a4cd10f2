package middleware

import (
	"github.com/gin-gonic/gin"
)

// DeviceTokenHeader carries the opaque token identifying one device's
// sitting. The client echoes it on every request; the server issues a fresh
// one when the header is absent and returns it on the response so the client
// can persist it.
const DeviceTokenHeader = "X-Device-Token"

const deviceTokenKey = "deviceToken"

// DeviceMiddleware ensures every request carries a device token, issuing one
// when missing. The issuer is injected so the middleware stays free of the
// token format.
func DeviceMiddleware(newToken func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(DeviceTokenHeader)
		if token == "" {
			token = newToken()
		}
		c.Set(deviceTokenKey, token)
		c.Header(DeviceTokenHeader, token)
		c.Next()
	}
}

// DeviceToken returns the request's device token. Empty only if
// DeviceMiddleware did not run.
func DeviceToken(c *gin.Context) string {
	return c.GetString(deviceTokenKey)
}
