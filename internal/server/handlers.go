package server

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"salescharts/internal/charts"
	"salescharts/internal/charts/echarts"
	"salescharts/internal/charts/static"
	"salescharts/internal/charts/vegalite"
	"salescharts/internal/config"
	"salescharts/internal/dataset"
	"salescharts/internal/observability"
	"salescharts/internal/storage"
)

const (
	defaultReportsLimit = 10
	maxReportsLimit     = 100
)

// HandleRoot redirects to the latest stored report, or renders the
// dashboard live when none exists yet
func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	if s.Storage != nil {
		latest, err := storage.LatestReport(ctx, s.Storage)
		if err == nil {
			target := "/files/" + latest + "/" + charts.IndexFile
			s.log.Debug("Redirecting to latest report", map[string]interface{}{"location": target})
			http.Redirect(w, r, target, http.StatusFound)
			return
		}
		if !errors.Is(err, storage.ErrNoReports) {
			s.log.Warn("Failed to look up latest report", map[string]interface{}{"error": err.Error()})
		}
	}

	doc, _, err := s.Suite.Dashboard(s.observations)
	if err != nil {
		s.log.Error("Failed to render dashboard", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := doc.Render(&buf); err != nil {
		s.log.Error("Failed to render dashboard", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storageCheck := string(s.DeploymentMode)
	if s.Storage == nil {
		storageCheck = "disabled"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "healthy",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"version":         config.GetVersion(),
		"deployment_mode": s.DeploymentMode,
		"observations":    len(s.observations),
		"checks": map[string]string{
			"storage": storageCheck,
			"config":  "ok",
		},
	})
}

// HandleGenerate renders every report file and stores them. Only one
// generation runs at a time.
func (s *Server) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.generateMutex.TryLock() {
		s.log.Warn("Report generation already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Report generation already in progress",
			"message": "Another report generation is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	defer s.generateMutex.Unlock()

	if s.Storage == nil {
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	start := time.Now()

	files, err := s.Suite.GenerateAllFiles(ctx, s.observations, start.UTC())
	if err == nil {
		err = charts.StoreAllFiles(ctx, s.Storage, files)
	}
	if err != nil {
		observability.CountReport(observability.StatusFailure)
		s.log.Error("Report generation failed", err)
		http.Error(w, "Report generation failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	observability.CountReport(observability.StatusSuccess)

	s.log.Info("Report generation completed successfully", map[string]interface{}{
		"folder":   files.FolderPath,
		"duration": time.Since(start).String(),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "success",
		"folder":   files.FolderPath,
		"url":      "/files/" + files.FolderPath + "/" + charts.IndexFile,
		"files":    files.Names(),
		"duration": time.Since(start).String(),
	})
}

// HandleFileProxy serves stored report files through the storage client
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Storage == nil {
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	filePath := strings.TrimPrefix(r.URL.Path, "/files/")
	if filePath == "" {
		http.Error(w, "File path required", http.StatusBadRequest)
		return
	}
	if _, err := storage.CleanPath(filePath); err != nil {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	fileData, err := s.Storage.GetFile(r.Context(), filePath)
	if err != nil {
		s.log.Debug("File not found in storage", map[string]interface{}{"path": filePath, "error": err.Error()})
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(filePath))
	w.Write(fileData)
}

// HandleListReports lists recent reports, newest first
func (s *Server) HandleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Storage == nil {
		http.Error(w, "Storage not configured", http.StatusServiceUnavailable)
		return
	}

	limit := defaultReportsLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = min(parsed, maxReportsLimit)
		}
	}

	reports, err := storage.ListReports(r.Context(), s.Storage, limit)
	if err != nil {
		s.log.Error("Failed to list reports", err)
		http.Error(w, "Failed to list reports: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if reports == nil {
		reports = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports":   reports,
		"count":     len(reports),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleDataset returns the flat observations
func (s *Server) HandleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var buf bytes.Buffer
	if err := dataset.WriteJSON(&buf, s.observations); err != nil {
		s.log.Error("Failed to encode dataset", err)
		http.Error(w, "Failed to encode dataset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

// HandleSeries returns the reshaped series table
func (s *Server) HandleSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, dataset.Reshape(s.observations))
}

// HandleEChartsOption returns the ECharts option object
func (s *Server) HandleEChartsOption(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := echarts.OptionJSON(s.observations)
	if err != nil {
		s.log.Error("Failed to build echarts option", err)
		http.Error(w, "Failed to build echarts option", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// HandleVegaSpec returns the Vega-Lite specification
func (s *Server) HandleVegaSpec(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := vegalite.NewStackedAreaSpec(s.observations).JSON()
	if err != nil {
		s.log.Error("Failed to build vega spec", err)
		http.Error(w, "Failed to build vega spec", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// HandleGrammarSVG returns the go-gg plot as an SVG document
func (s *Server) HandleGrammarSVG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data, err := s.Suite.GrammarSVG(s.observations)
	if err != nil {
		s.log.Warn("Failed to render grammar plot", map[string]interface{}{"error": err.Error()})
		http.Error(w, "No chart available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(data)
}

// HandleStaticImage returns the go-chart image, PNG or SVG by extension
func (s *Server) HandleStaticImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format, err := static.ParseFormat(strings.TrimPrefix(path.Ext(r.URL.Path), "."))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := s.Suite.StaticImage(s.observations, format)
	if err != nil {
		s.log.Warn("Failed to render static image", map[string]interface{}{"error": err.Error()})
		http.Error(w, "No chart available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(data)
}

// HandleEChartsPage returns a standalone go-echarts page
func (s *Server) HandleEChartsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var buf bytes.Buffer
	if err := echarts.Page(s.observations, &buf); err != nil {
		s.log.Error("Failed to render echarts page", err)
		http.Error(w, "Failed to render echarts page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
