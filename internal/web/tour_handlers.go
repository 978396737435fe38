package web

import (
	"net/http"

	"github.com/evcraddock/showing-hive/internal/tour"
)

// apiListTours returns all saved tours.
func (s *Server) apiListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := s.tours.List(r.Context())
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if tours == nil {
		tours = make([]*tour.Tour, 0)
	}
	apiJSON(w, tours, http.StatusOK)
}

// apiCreateTour builds an itinerary from approved showings.
func (s *Server) apiCreateTour(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuyerName  string   `json:"buyer_name"`
		ShowingIDs []string `json:"showing_ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	t, err := s.tours.Create(r.Context(), req.BuyerName, req.ShowingIDs)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, t, http.StatusCreated)
}

// apiGetTour returns a single tour.
func (s *Server) apiGetTour(w http.ResponseWriter, r *http.Request) {
	t, err := s.tours.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, t, http.StatusOK)
}
