package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	"go-chart-dashboard/internal/api/handler"
	"go-chart-dashboard/pkg/router"

	_ "go-chart-dashboard/docs"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/sessions", h.Login)
	r.DELETE("/api/v1/sessions", h.Logout)

	r.POST("/api/v1/session/dataset", h.UploadDataset)
	r.GET("/api/v1/session/dataset", h.GetDataset)

	r.GET("/api/v1/session/dashboard", h.GetDashboard)
	r.PUT("/api/v1/session/dashboard/title", h.SetDashboardTitle)

	r.POST("/api/v1/session/charts", h.CreateChart)
	r.GET("/api/v1/session/charts", h.ListCharts)
	r.DELETE("/api/v1/session/charts", h.ClearCharts)
	// More specific routes first
	r.GET("/api/v1/session/charts/*/data", h.ChartData)
	r.GET("/api/v1/session/charts/*/export", h.ExportChart)
	// Generic chart routes last
	r.PUT("/api/v1/session/charts/*", h.UpdateChart)
	r.DELETE("/api/v1/session/charts/*", h.DeleteChart)

	r.POST("/api/v1/session/suggestions", h.Suggestions)

	r.GET("/swagger/*", httpSwagger.WrapHandler.ServeHTTP)
}
