package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"agentedigitalapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// InitLoggerWithConfig initializes the global logger with the full rotation config.
func InitLoggerWithConfig(filePath, level string, maxSize, maxBackups, maxAge int, compress bool) {
	logLevel := logger.ParseLogLevel(level)
	logger.InitWithConfig(filePath, logLevel, maxSize, maxBackups, maxAge, compress)
	logger.Infof("Logger initialized with level %s at: %s", level, filePath)
}

// RequestIDMiddleware assigns a correlation id to every request, reusing the
// incoming X-Request-ID header when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// Enhanced structured middleware log
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		status := c.Writer.Status()
		reqID := c.GetString("request_id")

		// Log based on status code level
		if status >= 500 {
			logger.Errorf("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		} else if status >= 400 {
			logger.Warnf("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		} else {
			logger.Infof("HTTP %s %s - Status: %d, Duration: %v, IP: %s, RequestID: %s",
				c.Request.Method, c.Request.URL.Path, status, elapsed, c.ClientIP(), reqID)
		}
	}
}

// JSONResponse sends a JSON response with the specified HTTP status code.
func JSONResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// StatusErrorResponse sends {"error": ...} with the status that matches the
// sentinel wrapped in err. Unknown errors are reported as 500.
func StatusErrorResponse(c *gin.Context, err error) {
	status := StatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("API Error: %v", err)
	} else {
		logger.Warnf("API Error (%d): %v", status, err)
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{
			"error":    verr.Message,
			"detalles": verr.Detalles,
		})
		return
	}
	c.JSON(status, gin.H{
		"error": PublicMessage(err),
	})
}

// PublicMessage drops the trailing sentinel text added by the *f constructors.
func PublicMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{ErrNotFound, ErrInvalidInput, ErrConflict, ErrLimitReached} {
		if errors.Is(err, s) {
			return strings.TrimSuffix(msg, ": "+s.Error())
		}
	}
	return msg
}

// StatusFromError maps the package sentinels to HTTP status codes.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrLimitReached):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
