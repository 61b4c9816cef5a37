package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go-chart-dashboard/internal/dashboard"
	"go-chart-dashboard/internal/engine"
	"go-chart-dashboard/internal/export"
	"go-chart-dashboard/internal/model"
	"go-chart-dashboard/pkg/router"
)

// Wildcard patterns the chart handlers are registered under
const (
	chartPattern       = "/api/v1/session/charts/*"
	chartDataPattern   = "/api/v1/session/charts/*/data"
	chartExportPattern = "/api/v1/session/charts/*/export"
)

// writeConfigError maps a rejected chart config to a 422 carrying the
// offending field names
func writeConfigError(w http.ResponseWriter, err error) {
	var vErr *dashboard.ValidationError
	if errors.As(err, &vErr) {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "chart config invalid",
			"fields": vErr.Fields,
		})
		return
	}
	respondError(w, http.StatusBadRequest, err.Error())
}

// CreateChart adds a chart to the dashboard
// @Summary Create chart
// @Description Validate a chart config against the loaded dataset and add it to the dashboard
// @Tags charts
// @Accept json
// @Produce json
// @Param Authorization header string true "Session token"
// @Param chart body model.ChartConfig true "Chart configuration, id is assigned by the server"
// @Success 200 {object} model.ChartConfig "Stored chart with its assigned id"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 422 {object} map[string]interface{} "Config rejected, body lists the offending fields"
// @Router /session/charts [post]
func (h *Handler) CreateChart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var cfg model.ChartConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	// Creation always mints a fresh id, client-sent ones are ignored
	cfg.ID = ""
	stored, err := ctrl.CreateOrUpdate(cfg)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stored)
}

// UpdateChart replaces an existing chart's configuration
// @Summary Update chart
// @Description Replace an existing chart's configuration in place, keeping its position
// @Tags charts
// @Accept json
// @Produce json
// @Param Authorization header string true "Session token"
// @Param id path string true "Chart ID"
// @Param chart body model.ChartConfig true "New chart configuration"
// @Success 200 {object} model.ChartConfig "Updated chart"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 404 {object} map[string]interface{} "Chart not found"
// @Failure 422 {object} map[string]interface{} "Config rejected, body lists the offending fields"
// @Router /session/charts/{id} [put]
func (h *Handler) UpdateChart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	id := router.Wildcard(r.URL.Path, chartPattern)
	if id == "" {
		respondError(w, http.StatusBadRequest, "chart ID is required")
		return
	}
	if _, found := ctrl.Chart(id); !found {
		respondError(w, http.StatusNotFound, "chart not found")
		return
	}

	var cfg model.ChartConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	cfg.ID = id
	stored, err := ctrl.CreateOrUpdate(cfg)
	if err != nil {
		writeConfigError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, stored)
}

// DeleteChart removes a chart from the dashboard
// @Summary Delete chart
// @Description Remove a chart. Deleting an unknown chart is a no-op.
// @Tags charts
// @Produce json
// @Param Authorization header string true "Session token"
// @Param id path string true "Chart ID"
// @Success 200 {object} map[string]interface{} "Removal confirmation"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/charts/{id} [delete]
func (h *Handler) DeleteChart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	id := router.Wildcard(r.URL.Path, chartPattern)
	if id == "" {
		respondError(w, http.StatusBadRequest, "chart ID is required")
		return
	}
	ctrl.Remove(id)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Chart removed",
	})
}

// ListCharts returns the dashboard's charts in display order
// @Summary List charts
// @Description List the dashboard's charts ordered by the sort query parameter
// @Tags charts
// @Produce json
// @Param Authorization header string true "Session token"
// @Param sort query string false "date-desc, date-asc, title-asc, title-desc or type-asc" default(date-desc)
// @Success 200 {array} model.ChartConfig "Charts in display order"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/charts [get]
func (h *Handler) ListCharts(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	charts := ctrl.Charts(model.SortKey(r.URL.Query().Get("sort")))
	respondJSON(w, http.StatusOK, charts)
}

// ClearCharts removes every chart at once
// @Summary Clear charts
// @Description Remove all charts, keeping the dashboard title and dataset
// @Tags charts
// @Produce json
// @Param Authorization header string true "Session token"
// @Success 200 {object} map[string]interface{} "Clear confirmation"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/charts [delete]
func (h *Handler) ClearCharts(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ctrl.ClearAll()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All charts cleared",
	})
}

// ChartData returns a chart's aggregated rows
// @Summary Chart data
// @Description Aggregate the loaded dataset for one chart. Without a dataset the result is empty.
// @Tags charts
// @Produce json
// @Param Authorization header string true "Session token"
// @Param id path string true "Chart ID"
// @Success 200 {object} map[string]interface{} "Aggregated rows"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 404 {object} map[string]interface{} "Chart not found"
// @Router /session/charts/{id}/data [get]
func (h *Handler) ChartData(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	id := router.Wildcard(r.URL.Path, chartDataPattern)
	cfg, found := ctrl.Chart(id)
	if !found {
		respondError(w, http.StatusNotFound, "chart not found")
		return
	}

	var rows []model.Row
	if ds := ctrl.Dataset(); ds != nil {
		rows = engine.Aggregate(ds.Rows, cfg.XAxis, cfg.YAxis, cfg.Aggregation)
	} else {
		rows = []model.Row{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"chart_id": cfg.ID,
		"title":    cfg.Title,
		"data":     rows,
		"count":    len(rows),
	})
}

// ExportChart downloads a chart's aggregated rows as a file
// @Summary Export chart
// @Description Download one chart's aggregated rows as a CSV or JSON attachment
// @Tags charts
// @Produce json,text/csv
// @Param Authorization header string true "Session token"
// @Param id path string true "Chart ID"
// @Param format query string false "csv or json" default(csv)
// @Success 200 {file} file "Aggregated rows as an attachment"
// @Failure 400 {object} map[string]interface{} "Unsupported format"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 404 {object} map[string]interface{} "Chart not found"
// @Router /session/charts/{id}/export [get]
func (h *Handler) ExportChart(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	id := router.Wildcard(r.URL.Path, chartExportPattern)
	cfg, found := ctrl.Chart(id)
	if !found {
		respondError(w, http.StatusNotFound, "chart not found")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		respondError(w, http.StatusBadRequest, "unsupported format, use csv or json")
		return
	}

	var rows []model.Row
	if ds := ctrl.Dataset(); ds != nil {
		rows = engine.Aggregate(ds.Rows, cfg.XAxis, cfg.YAxis, cfg.Aggregation)
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.AttachmentName(cfg.Title, format)))

	var err error
	if format == "json" {
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, cfg, rows)
	} else {
		w.Header().Set("Content-Type", "text/csv")
		err = export.WriteCSV(w, rows, cfg.XAxis, cfg.YAxis)
	}
	if err != nil {
		// Headers are gone already, all we can do is log
		fmt.Printf("❌ Export: writing %s for chart %s failed: %v\n", format, cfg.ID, err)
	}
}
