package web

import (
	"net/http"
	"strconv"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/property"
)

// propertyRequest is the body for creating or updating a property. Policy
// flags are pointers so an omitted flag keeps its default.
type propertyRequest struct {
	Name                       string           `json:"name"`
	Address                    string           `json:"address"`
	Seller                     property.Contact `json:"seller"`
	Agent                      property.Contact `json:"agent"`
	AutoApproveShowings        *bool            `json:"auto_approve_showings"`
	RequiresDisclosureApproval *bool            `json:"requires_disclosure_approval"`
}

func (req propertyRequest) apply(p *property.Property) {
	p.Name = req.Name
	p.Address = req.Address
	p.Seller = req.Seller
	p.Agent = req.Agent
	if req.AutoApproveShowings != nil {
		p.AutoApproveShowings = *req.AutoApproveShowings
	}
	if req.RequiresDisclosureApproval != nil {
		p.RequiresDisclosureApproval = *req.RequiresDisclosureApproval
	}
}

// apiListProperties returns all properties.
func (s *Server) apiListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.props.List(r.Context())
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if props == nil {
		props = make([]*property.Property, 0)
	}
	apiJSON(w, props, http.StatusOK)
}

// apiAddProperty creates a property. Disclosure approval is required unless
// the request turns it off.
func (s *Server) apiAddProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := &property.Property{RequiresDisclosureApproval: true}
	req.apply(p)
	created, err := s.props.Insert(r.Context(), p)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, created, http.StatusCreated)
}

// apiGetProperty returns a single property.
func (s *Server) apiGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, p, http.StatusOK)
}

// apiUpdateProperty replaces a property's details. Omitted policy flags keep
// their current values.
func (s *Server) apiUpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	req.apply(p)
	if err := s.props.Update(r.Context(), p); err != nil {
		apiFail(w, r, err)
		return
	}

	updated, err := s.props.Get(r.Context(), p.ID)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, updated, http.StatusOK)
}

// apiDashboard returns the seller's view of a property.
func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.showings.Dashboard(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	d.Showings = redactShowings(d.Showings)
	apiJSON(w, d, http.StatusOK)
}

// apiListActivity returns a property's events, newest first. ?limit=N caps
// the result.
func (s *Server) apiListActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			apiError(w, "limit must be a non-negative integer", "invalid_input", http.StatusBadRequest)
			return
		}
		limit = n
	}

	p, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	events, err := s.activity.ListByProperty(r.Context(), p.ID, limit)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if events == nil {
		events = make([]*activity.Event, 0)
	}
	apiJSON(w, events, http.StatusOK)
}
