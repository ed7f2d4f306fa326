// Package middleware provides HTTP middleware for the API.
//
// Go Pattern: Middleware in Gin is a gin.HandlerFunc that calls c.Next() to
// continue the chain, or c.Abort() to stop processing.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns middleware that accepts requests from any origin, with any
// method and any header. The analyzer is meant to be called from arbitrary pages.
func CORS() gin.HandlerFunc {
	handler := cors.New(cors.Config{
		// AllowOriginFunc instead of AllowAllOrigins: with credentials enabled the
		// response must echo the caller's origin rather than "*".
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	})

	// A literal "*" in Access-Control-Allow-Headers is not a wildcard on
	// credentialed requests, so preflights get the requested headers back.
	// This must happen before handler runs: it writes the preflight response.
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions && c.GetHeader("Origin") != "" {
			if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
				c.Header("Access-Control-Allow-Headers", requested)
			}
		}
		handler(c)
	}
}
