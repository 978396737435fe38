// Package web provides the JSON REST API for showing-hive.
package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/disclosure"
	"github.com/evcraddock/showing-hive/internal/filestore"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/showing"
	"github.com/evcraddock/showing-hive/internal/tour"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 32 << 20

// Deps are the services the API is served from.
type Deps struct {
	Properties  *property.Repository
	Showings    *showing.Manager
	Disclosures *disclosure.Manager
	Tours       *tour.Service
	Activity    *activity.Repository
	Files       *filestore.Store
}

// Server is the REST API HTTP handler.
type Server struct {
	props       *property.Repository
	showings    *showing.Manager
	disclosures *disclosure.Manager
	tours       *tour.Service
	activity    *activity.Repository
	files       *filestore.Store
	mux         *http.ServeMux
}

// NewServer creates an API server over the given services.
func NewServer(d Deps) *Server {
	s := &Server{
		props:       d.Properties,
		showings:    d.Showings,
		disclosures: d.Disclosures,
		tours:       d.Tours,
		activity:    d.Activity,
		files:       d.Files,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/properties", s.apiListProperties)
	s.mux.HandleFunc("POST /api/properties", s.apiAddProperty)
	s.mux.HandleFunc("GET /api/properties/{id}", s.apiGetProperty)
	s.mux.HandleFunc("PUT /api/properties/{id}", s.apiUpdateProperty)
	s.mux.HandleFunc("GET /api/properties/{id}/dashboard", s.apiDashboard)
	s.mux.HandleFunc("GET /api/properties/{id}/activity", s.apiListActivity)

	s.mux.HandleFunc("GET /api/properties/{id}/blocks", s.apiListBlocks)
	s.mux.HandleFunc("POST /api/properties/{id}/blocks", s.apiAddBlock)
	s.mux.HandleFunc("GET /api/properties/{id}/showings", s.apiListShowings)
	s.mux.HandleFunc("POST /api/properties/{id}/showings", s.apiRequestShowing)
	s.mux.HandleFunc("GET /api/showings/{id}", s.apiGetShowing)
	s.mux.HandleFunc("POST /api/showings/{id}/approve", s.apiApproveShowing)
	s.mux.HandleFunc("POST /api/showings/{id}/decline", s.apiDeclineShowing)
	s.mux.HandleFunc("POST /api/showings/{id}/reschedule", s.apiRescheduleShowing)
	s.mux.HandleFunc("GET /api/showings/{id}/lockbox", s.apiLockboxCode)
	s.mux.HandleFunc("POST /api/showings/{id}/feedback", s.apiShowingFeedback)

	s.mux.HandleFunc("GET /api/properties/{id}/files", s.apiListFiles)
	s.mux.HandleFunc("PUT /api/properties/{id}/files/{name}", s.apiUploadFile)
	s.mux.HandleFunc("GET /api/properties/{id}/packages", s.apiListPackages)
	s.mux.HandleFunc("POST /api/properties/{id}/packages", s.apiCreatePackage)
	s.mux.HandleFunc("GET /api/properties/{id}/shares", s.apiListShares)
	s.mux.HandleFunc("POST /api/properties/{id}/shares", s.apiRequestShare)
	s.mux.HandleFunc("GET /api/shares/{id}", s.apiGetShare)
	s.mux.HandleFunc("POST /api/shares/{id}/approve", s.apiApproveShare)
	s.mux.HandleFunc("GET /api/shares/{id}/files/{name}", s.apiDownloadFile)
	s.mux.HandleFunc("POST /api/shares/{id}/feedback", s.apiShareFeedback)

	s.mux.HandleFunc("GET /api/tours", s.apiListTours)
	s.mux.HandleFunc("POST /api/tours", s.apiCreateTour)
	s.mux.HandleFunc("GET /api/tours/{id}", s.apiGetTour)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if _, err := fmt.Fprint(w, "ok"); err != nil {
		slog.Error("writing health response", "err", err)
	}
}
