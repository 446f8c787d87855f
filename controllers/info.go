package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Info GET /
func Info(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Postulate.ai API",
			"version": version,
			"endpoints": gin.H{
				"health": "/api/health",
				"waitlist": gin.H{
					"join":  "POST /api/waitlist",
					"stats": "GET /api/waitlist/stats",
					"list":  "GET /api/waitlist",
				},
				"auth": gin.H{
					"register": "POST /api/auth/register",
					"login":    "POST /api/auth/login",
					"me":       "GET /api/auth/me",
				},
				"ideas": gin.H{
					"create":  "POST /api/ideas",
					"list":    "GET /api/ideas",
					"myIdeas": "GET /api/ideas/my-ideas",
					"get":     "GET /api/ideas/:id",
					"update":  "PATCH /api/ideas/:id",
					"submit":  "POST /api/ideas/:id/submit",
					"review":  "POST /api/ideas/:id/review",
					"delete":  "DELETE /api/ideas/:id",
				},
			},
		})
	}
}

// NotFound is the JSON catch-all for unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
