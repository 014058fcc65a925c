package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/auth"
)

// TokenParser восстанавливает принципала из access-токена.
type TokenParser interface {
	Parse(raw string) (*auth.Principal, error)
}

// Authenticate требует заголовок Authorization: Bearer <token>.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			sendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
				"Please provide a valid authorization token in the request header")
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			sendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid token format",
				"Authorization header must use the Bearer scheme")
			return
		}
		p, err := tokens.Parse(raw)
		if err != nil {
			sendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
				"Please log in again")
			return
		}
		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole пропускает только перечисленные роли. Ставится после Authenticate.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal(c)
		if !p.Is(roles...) {
			sendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Access denied",
				"You do not have permission to perform this action")
			return
		}
		c.Next()
	}
}

// principal достаёт принципала, положенного Authenticate в контекст запроса.
func principal(c *gin.Context) *auth.Principal {
	p, err := auth.PrincipalFrom(c.Request.Context())
	if err != nil {
		return nil
	}
	return p
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http.request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
