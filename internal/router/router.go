package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ChrononAI/chronon-web-sub001/internal/handler"
	"github.com/ChrononAI/chronon-web-sub001/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	sessionH *handler.SessionHandler,
	codeH *handler.CodeHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Code search and item catalog (read-only master data)
	codes := v1.Group("/codes")
	codes.GET("/tds", codeH.SearchTDS)
	codes.GET("/gst", codeH.SearchGST)
	v1.GET("/items", codeH.ListItems)

	// Line-item editing sessions
	sessions := v1.Group("/sessions")
	sessions.POST("", sessionH.Open)
	sessions.DELETE("/:id", sessionH.Close)
	sessions.GET("/:id/rows", sessionH.ListRows)
	sessions.POST("/:id/rows", sessionH.AddRow)
	sessions.POST("/:id/import", sessionH.Import)
	sessions.POST("/:id/recalculate", sessionH.Recalculate)
	sessions.PATCH("/:id/rows/:rowId", sessionH.UpdateField)
	sessions.DELETE("/:id/rows/:rowId", sessionH.RemoveRow)
	sessions.POST("/:id/rows/:rowId/tds-code", sessionH.SelectTDSCode)
	sessions.POST("/:id/rows/:rowId/gst-code", sessionH.SelectGSTCode)
	sessions.POST("/:id/rows/:rowId/item", sessionH.SelectItem)
	sessions.PUT("/:id/rows/:rowId/baseline", sessionH.SetBaseline)
	sessions.GET("/:id/rows/:rowId/changed", sessionH.IsChanged)

	return r
}
