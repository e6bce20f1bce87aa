package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/orgbook/internal/common"
	"github.com/dmitrijs2005/orgbook/internal/server/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		if id := c.GetString(userIDKey); id != "" {
			args = append(args, "user_id", id)
		}
		s.logger.Info(c.Request.Context(), "request", args...)
	}
}

// authRequired accepts "Authorization: Bearer <token>" and stores the user id
// under userIDKey.
func (s *HTTPServer) authRequired(c *gin.Context) {
	header := c.GetHeader(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || strings.TrimSpace(token) == "" {
		s.fail(c, common.ErrorUnauthorized)
		return
	}

	userID, err := auth.GetUserIDFromToken(strings.TrimSpace(token), s.jwtSecret)
	if err != nil {
		s.logger.Debug(c.Request.Context(), "token rejected", "error", err)
		s.fail(c, err)
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

// corsMiddleware answers preflights and rejects disallowed origins with 403.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", common.AuthorizationHeaderName},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
