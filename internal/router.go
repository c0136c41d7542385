package internal

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

func BuildRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestID())

	router.GET("/", app.Home)
	router.GET("/health", app.Health)
	router.POST("/generate-caption", app.GenerateCaption)
	router.POST("/batch-generate", app.BatchGenerate)

	return router
}

// RequestID tags every request with a UUID, echoed in the X-Request-ID
// response header and attached to service log lines.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
