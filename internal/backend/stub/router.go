package stub

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter configures the gin engine serving the notes REST surface.
func NewRouter(logger *zap.Logger, store *Store) *gin.Engine {
	h := &Handler{logger: logger, store: store, now: time.Now}

	r := gin.New()
	// POST paths end in a slash and GET list paths do not; both must be served as-is.
	r.RedirectTrailingSlash = false

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/conversations", h.ListConversations)
	r.GET("/conversations/", h.SearchConversations)
	r.POST("/conversations/", h.CreateConversation)
	r.GET("/conversations/:id", h.GetConversation)

	r.GET("/messages", h.ListMessages)
	r.GET("/messages/", h.SearchMessages)
	r.POST("/messages/", h.CreateMessage)

	r.GET("/thoughts", h.ListThoughts)
	r.POST("/thoughts/", h.CreateThought)

	return r
}

// zapLoggerMiddleware logs one line per request.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetHeader("X-Request-ID")),
		)
	}
}

func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
