// Package server exposes the sales dashboard, its chart artifacts and stored
// reports over HTTP.
package server

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"salescharts/internal/charts"
	"salescharts/internal/config"
	"salescharts/internal/dataset"
	"salescharts/internal/logger"
	"salescharts/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config         *config.Config
	Suite          *charts.Suite
	Storage        storage.StorageClient
	DeploymentMode storage.DeploymentMode

	observations  []dataset.Observation
	generateMutex sync.Mutex
	log           *logger.Logger
}

// NewServer creates a server over an already loaded dataset
func NewServer(cfg *config.Config, suite *charts.Suite, store storage.StorageClient, obs []dataset.Observation) *Server {
	return &Server{
		Config:         cfg,
		Suite:          suite,
		Storage:        store,
		DeploymentMode: storage.ModeOf(cfg),
		observations:   obs,
		log:            logger.Component("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.HandleHealth)
	mux.HandleFunc("/generate", s.HandleGenerate)
	mux.HandleFunc("/reports", s.HandleListReports)
	mux.HandleFunc("/files/", s.HandleFileProxy)

	mux.HandleFunc("/api/dataset", s.HandleDataset)
	mux.HandleFunc("/api/series", s.HandleSeries)
	mux.HandleFunc("/api/echarts/option", s.HandleEChartsOption)
	mux.HandleFunc("/api/vega/spec", s.HandleVegaSpec)

	mux.HandleFunc("/charts/grammar.svg", s.HandleGrammarSVG)
	mux.HandleFunc("/charts/static.png", s.HandleStaticImage)
	mux.HandleFunc("/charts/static.svg", s.HandleStaticImage)
	mux.HandleFunc("/charts/echarts.html", s.HandleEChartsPage)

	mux.Handle("/metrics", promhttp.Handler())

	// Handle root path last (catch-all)
	mux.HandleFunc("/", s.HandleRoot)

	return mux
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
