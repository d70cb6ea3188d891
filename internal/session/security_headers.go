package session

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware adds security headers to all responses. Flag
// images are served from the local cache or the flag CDN, so img-src allows
// any https origin.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		formAction := "'self'"
		if host := c.Request.Host; host != "" {
			// 'self' can fail behind reverse proxies
			formAction = "'self' https://" + host
		}

		c.Header("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline'; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self'; "+
				"frame-ancestors 'none'; "+
				"form-action "+formAction)

		c.Header("Permissions-Policy",
			"camera=(), geolocation=(), microphone=(), payment=(), usb=()")

		c.Next()
	}
}

// StrictTransportSecurityMiddleware adds HSTS for requests that arrived over
// HTTPS.
func StrictTransportSecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
