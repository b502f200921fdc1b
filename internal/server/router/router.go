package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/config"
	"github.com/mamadbah2/station/internal/server/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	subjectKey      = "subject"
)

// TokenValidator checks bearer tokens and returns their subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// Registrar mounts a group of routes.
type Registrar interface {
	Register(rg *gin.RouterGroup)
}

// Handlers groups every HTTP handler served by the API.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Records    []Registrar
	Categories *handlers.CategoryHandler
	Schemas    *handlers.SchemaHandler
	Reports    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(cfg config.ServerConfig, h Handlers, tokens TokenValidator, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	protected := api.Group("")
	protected.Use(authMiddleware(tokens))
	for _, rec := range h.Records {
		rec.Register(protected)
	}
	protected.GET("/schemas/:resource", h.Schemas.Get)
	protected.GET("/categories", h.Categories.List)
	protected.POST("/categories", h.Categories.Add)
	protected.GET("/reports/dashboard", h.Reports.Dashboard)
	protected.GET("/reports/export.xlsx", h.Reports.Export)

	if logger != nil {
		logger.Info("router initialized", zap.Int("resources", len(h.Records)))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", requestIDHeader)
	cfg.ExposeHeaders = []string{"Content-Disposition", requestIDHeader}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func authMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		subject, err := tokens.Validate(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
			zap.String("subject", c.GetString(subjectKey)))
	}
}
