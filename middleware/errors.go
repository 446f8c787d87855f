package middleware

import (
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"postulate-api/services"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the response for the last error attached to the
// context, unless a handler already responded.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, body := errorResponse(c.Errors.Last().Err)
		if status == http.StatusInternalServerError {
			log.Printf("[error] %s %s: %v", c.Request.Method, c.Request.URL.Path, c.Errors.Last().Err)
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery turns a panic into the generic 500 body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Printf("[panic] %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

func errorResponse(err error) (int, gin.H) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}

	body := gin.H{"error": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return StatusFor(appErr.Kind), body
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindState:
		return http.StatusBadRequest
	case services.KindAuthentication:
		return http.StatusUnauthorized
	case services.KindAuthorization:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
