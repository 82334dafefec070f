package handler

import (
	"net/http"
	"runtime/debug"

	"sigscope/internal/controller"
	"sigscope/pkg/mcp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter wires the signature API and, when mcpServer is non-nil, the MCP endpoint
func SetupRouter(signatureController *controller.SignatureController, mcpServer *mcp.SignatureServer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(CustomRecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/signature", signatureController.ResolveSignature)
		v1.POST("/callables", signatureController.RegisterCallable)
		v1.GET("/callables", signatureController.ListCallables)
		v1.GET("/callables/:id/signature", signatureController.GetSignature)
		v1.PUT("/callables/:id/override", signatureController.SetOverride)
		v1.DELETE("/callables/:id/override", signatureController.ClearOverride)
		v1.DELETE("/callables/:id", signatureController.RemoveCallable)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "healthy",
			})
		})
	}

	if mcpServer != nil {
		mcpServer.SetupHTTPRoutes(router)
	}

	return router
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
		)
		c.Next()
	}
}

func CustomRecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
