package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/asdscreen/asd-screening-api/internal/logger"
	"github.com/asdscreen/asd-screening-api/pkg/config"
)

// SecurityHeadersMiddleware adds security headers to all responses
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// JSON API only
		csp := "default-src 'none'; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"frame-src 'none'; " +
			"base-uri 'none'; " +
			"form-action 'none'"
		c.Header("Content-Security-Policy", csp)

		// Assessment data and tokens must not be cached by intermediaries
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		c.Header("Server", "")

		c.Next()
	}
}

// CORSMiddleware builds the gin-contrib/cors handler from config. In
// development common localhost origins are always allowed.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.MaxAge = 24 * time.Hour

	origins := cfg.GetAllowedOrigins()
	if containsWildcard(origins) {
		corsCfg.AllowAllOrigins = true
	} else {
		if cfg.IsDevelopment() {
			origins = append(origins,
				"http://localhost:3000",
				"http://localhost:8080",
				"http://localhost:8081",
				"http://127.0.0.1:8080",
			)
		}
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}

	return cors.New(corsCfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// InputValidationMiddleware caps request size and rejects bodies that are
// not JSON along with known scanner user agents
func InputValidationMiddleware(maxRequestSize int64) gin.HandlerFunc {
	if maxRequestSize <= 0 {
		maxRequestSize = 1024 * 1024
	}

	suspiciousPatterns := []string{
		"sqlmap",
		"nikto",
		"nmap",
		"masscan",
		"<script",
		"javascript:",
	}

	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)

		if c.Request.Method == http.MethodPost || c.Request.Method == http.MethodPut {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" {
				abortJSON(c, http.StatusBadRequest, "Content-Type header is required", "INVALID_INPUT")
				return
			}
			if !strings.HasPrefix(contentType, "application/json") {
				abortJSON(c, http.StatusUnsupportedMediaType, "Unsupported content type", "INVALID_INPUT")
				return
			}
		}

		userAgent := strings.ToLower(c.GetHeader("User-Agent"))
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(userAgent, pattern) {
				abortJSON(c, http.StatusForbidden, "Request blocked for security reasons", "FORBIDDEN")
				return
			}
		}

		c.Next()
	}
}

// RateLimiter is a per-client sliding one-minute window
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string][]time.Time
	now     func() time.Time

	lastSweep time.Time
}

// NewRateLimiter allows limit requests per client per minute
func NewRateLimiter(limit int) *RateLimiter {
	if limit <= 0 {
		limit = 100
	}
	return &RateLimiter{
		limit:   limit,
		window:  time.Minute,
		clients: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Allow records a request from key and reports whether it is within the limit
func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	valid := r.clients[key][:0]
	for _, ts := range r.clients[key] {
		if now.Sub(ts) <= r.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= r.limit {
		r.clients[key] = valid
		return false
	}

	r.clients[key] = append(valid, now)
	return true
}

// sweep drops clients with no request inside the window, at most once per window
func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.window {
		return
	}
	r.lastSweep = now
	for key, stamps := range r.clients {
		if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) > r.window {
			delete(r.clients, key)
		}
	}
}

// RateLimitingMiddleware rejects clients over the limiter's budget
func RateLimitingMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			abortJSON(c, http.StatusTooManyRequests, "Rate limit exceeded", "RATE_LIMITED")
			return
		}
		c.Next()
	}
}

// LoggingMiddleware logs each request through the structured logger
func LoggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		switch {
		case status >= 500:
			log.Warn("request failed", fields...)
		case status >= 400:
			log.Info("request rejected", fields...)
		default:
			log.Debug("request handled", fields...)
		}
	}
}

func abortJSON(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}
