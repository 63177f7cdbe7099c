package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/router-for-me/calculator-api/internal/auth"
	"github.com/router-for-me/calculator-api/internal/http/api/handlers"
	"github.com/router-for-me/calculator-api/internal/metrics"
	"github.com/router-for-me/calculator-api/internal/ratelimit"
	log "github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// requestIDMiddleware propagates the caller's request id or assigns a new one.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// requestLogMiddleware writes one log entry per request.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("http request")
		case path == "/health" || path == "/metrics":
			entry.Debug("http request")
		default:
			entry.Info("http request")
		}
	}
}

// metricsMiddleware records request counts and latencies by route template.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := metrics.RequestStarted()
		c.Next()
		done(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}

// authMiddleware resolves the bearer token into the current user.
// Every token failure yields the same 401 whether the token is forged,
// expired or names a deleted user.
func authMiddleware(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			handlers.RespondUnauthorized(c, handlers.MessageNotAuthenticated)
			return
		}
		scheme, token, found := strings.Cut(authHeader, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			handlers.RespondUnauthorized(c, handlers.MessageNotAuthenticated)
			return
		}

		user, errResolve := authSvc.ResolveCurrentUser(c.Request.Context(), token)
		if errResolve != nil {
			if !errors.Is(errResolve, auth.ErrUnauthorized) {
				log.WithError(errResolve).Error("auth: resolve current user failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
				return
			}
			handlers.RespondUnauthorized(c, handlers.MessageUnauthorized)
			return
		}
		handlers.SetCurrentUser(c, user)
		c.Next()
	}
}

// rateLimitMiddleware enforces limit requests per second for scope. A limit of zero disables it.
func rateLimitMiddleware(limiter *ratelimit.Manager, scope ratelimit.Scope, limit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}
		var userID uint64
		if user, ok := handlers.CurrentUser(c); ok {
			userID = user.ID
		}
		key := ratelimit.KeyFor(scope, c.ClientIP(), userID)
		if key == "" {
			c.Next()
			return
		}

		result, errAllow := limiter.Allow(c.Request.Context(), key, limit)
		if errAllow != nil {
			log.WithError(errAllow).Warn("ratelimit: check failed, allowing request")
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))
		if !result.Allowed {
			metrics.RecordRateLimited(scope.String())
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
