package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/noorweb/noorweb/internal/auth"
	"github.com/noorweb/noorweb/internal/config"
	"github.com/noorweb/noorweb/internal/engine"
	"github.com/noorweb/noorweb/internal/provider"
	"github.com/noorweb/noorweb/internal/store"
)

// requestID propagates or assigns X-Request-ID.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(config.HeaderRequest)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(config.HeaderRequest, id)
		c.Header(config.HeaderRequest, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug(config.MsgHTTPRequest,
			config.LogKeyComponent, config.CompAPI,
			config.LogKeyMethod, c.Request.Method,
			config.LogKeyPath, c.FullPath(),
			config.LogKeyStatus, c.Writer.Status(),
			config.LogKeyDuration, time.Since(start).Milliseconds(),
			config.LogKeyRequestID, c.GetString(config.HeaderRequest),
		)
	}
}

// bearerAuth verifies "Authorization: Bearer <token>" and stores the claims.
func bearerAuth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(config.HeaderAuth)
		if !strings.HasPrefix(header, config.BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{config.RespKeyError: config.HTTPMsgUnauthorized})
			return
		}
		claims, err := svc.ParseToken(strings.TrimPrefix(header, config.BearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{config.RespKeyError: config.HTTPMsgUnauthorized})
			return
		}
		c.Set(config.CtxKeyClaims, claims)
		c.Next()
	}
}

// fail maps an error to its HTTP status and JSON body.
func fail(c *gin.Context, err error) {
	var ve *auth.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{config.RespKeyError: config.ErrValidation, config.RespKeyFields: ve.Fields})
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{config.RespKeyError: err.Error()})
	case errors.Is(err, auth.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{config.RespKeyError: err.Error()})
	case errors.Is(err, engine.ErrUnknownCity):
		c.JSON(http.StatusNotFound, gin.H{config.RespKeyError: err.Error()})
	case errors.Is(err, provider.ErrBadCoordinates),
		errors.Is(err, provider.ErrBadSurah),
		errors.Is(err, provider.ErrBadBook),
		errors.Is(err, engine.ErrNegativeAmount),
		errors.Is(err, store.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{config.RespKeyError: err.Error()})
	case errors.Is(err, provider.ErrUnavailable),
		errors.Is(err, provider.ErrStatus),
		errors.Is(err, provider.ErrMalformed),
		errors.Is(err, engine.ErrIncompleteSchedule),
		errors.Is(err, engine.ErrUnknownEvent):
		slog.Warn(config.HTTPMsgRetry,
			config.LogKeyComponent, config.CompAPI,
			config.LogKeyPath, c.FullPath(),
			config.LogKeyError, err,
		)
		c.JSON(http.StatusBadGateway, gin.H{config.RespKeyError: config.HTTPMsgRetry, config.RespKeyRetry: true})
	default:
		slog.Error(config.HTTPMsgInternal,
			config.LogKeyComponent, config.CompAPI,
			config.LogKeyPath, c.FullPath(),
			config.LogKeyError, err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{config.RespKeyError: config.HTTPMsgInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{config.RespKeyError: msg})
}
