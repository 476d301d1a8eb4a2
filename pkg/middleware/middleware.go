package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"faultline/internal/reporter"
)

const scopeKey = "faultline.scope"

// Scoped creates one reporting Scope per request, attaches the request to
// it, and captures any panic through the pipeline before responding 500.
// The scope is discarded when the request ends; state never leaks between
// requests.
func Scoped(notifier *reporter.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := notifier.NewScope().WithRequest(c.Request)
		c.Set(scopeKey, scope)

		defer func() {
			if recovered := recover(); recovered != nil {
				err, ok := recovered.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", recovered)
				}

				scope.Capture(c.Request.Context(), err, map[string]interface{}{
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()

		c.Next()
	}
}

// ScopeFrom returns the request's reporting scope, or nil when the Scoped
// middleware is not installed.
func ScopeFrom(c *gin.Context) *reporter.Scope {
	value, ok := c.Get(scopeKey)
	if !ok {
		return nil
	}
	scope, ok := value.(*reporter.Scope)
	if !ok {
		return nil
	}
	return scope
}
