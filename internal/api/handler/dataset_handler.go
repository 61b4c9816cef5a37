package handler

import (
	"net/http"

	"go-chart-dashboard/internal/dataset"
)

// maxUploadBytes caps the in-memory part of a dataset upload
const maxUploadBytes = 32 << 20

// UploadDataset loads a CSV or Excel file into the session
// @Summary Upload a dataset
// @Description Load a CSV or Excel file as the session's working dataset. Uploading a different file resets the dashboard; re-uploading the file a restored dashboard was built on keeps its charts.
// @Tags dataset
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Session token"
// @Param file formData file true "CSV, XLSX or XLSM file"
// @Success 200 {object} map[string]interface{} "Dataset summary"
// @Failure 400 {object} map[string]interface{} "Missing or undecodable file"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Router /session/dataset [post]
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "expected a multipart form upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ds, err := dataset.Decode(file, header.Filename)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctrl.SetDataset(ds)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Dataset loaded successfully!",
		"fileName":       ds.FileName,
		"columns":        ds.Columns,
		"rowCount":       len(ds.Rows),
		"dashboardTitle": ctrl.Title(),
	})
}

// GetDataset describes the session's working dataset
// @Summary Dataset summary
// @Description Describe the currently loaded dataset without returning its rows
// @Tags dataset
// @Produce json
// @Param Authorization header string true "Session token"
// @Success 200 {object} map[string]interface{} "Dataset summary"
// @Failure 401 {object} map[string]interface{} "Unknown session"
// @Failure 404 {object} map[string]interface{} "No dataset loaded"
// @Router /session/dataset [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	ds := ctrl.Dataset()
	if ds == nil {
		respondError(w, http.StatusNotFound, "no dataset loaded")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fileName": ds.FileName,
		"columns":  ds.Columns,
		"rowCount": len(ds.Rows),
	})
}
