package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	portssvc "github.com/pesoplan/pesoplan_backend/internal/core/ports/services"
)

const requestMetaKey = contextKey("requestMeta")

// RequestMetaMiddleware captures client attribution (IP, user agent) into the
// request context so the audit logger can stamp it onto activity entries.
func RequestMetaMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		meta := portssvc.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		ctx := context.WithValue(c.Request.Context(), requestMetaKey, meta)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetRequestMetaFromCtx retrieves the client attribution captured by
// RequestMetaMiddleware. Returns a zero value outside a request.
func GetRequestMetaFromCtx(ctx context.Context) portssvc.RequestMeta {
	if ctx == nil {
		return portssvc.RequestMeta{}
	}
	meta, _ := ctx.Value(requestMetaKey).(portssvc.RequestMeta)
	return meta
}
