package web

import (
	"net/http"

	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/showing"
)

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// apiListBlocks returns a property's blocked ranges.
func (s *Server) apiListBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.showings.ListBlocks(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if blocks == nil {
		blocks = make([]schedule.BlockedRange, 0)
	}
	apiJSON(w, blocks, http.StatusOK)
}

// apiAddBlock marks a range unavailable for showings.
func (s *Server) apiAddBlock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := showing.ParseStart(req.Start)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	end, err := showing.ParseStart(req.End)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	b, err := s.showings.BlockTime(r.Context(), r.PathValue("id"), start, end)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, b, http.StatusCreated)
}

// apiListShowings returns a property's showings ordered by start.
func (s *Server) apiListShowings(w http.ResponseWriter, r *http.Request) {
	list, err := s.showings.List(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowings(list), http.StatusOK)
}

// apiRequestShowing books a showing for a buyer.
func (s *Server) apiRequestShowing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start  string          `json:"start"`
		Client schedule.Person `json:"client"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := showing.ParseStart(req.Start)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	sh, err := s.showings.RequestShowing(r.Context(), r.PathValue("id"), start, req.Client)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowing(sh), http.StatusCreated)
}

// apiGetShowing returns a single showing.
func (s *Server) apiGetShowing(w http.ResponseWriter, r *http.Request) {
	sh, err := s.showings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowing(sh), http.StatusOK)
}

// apiApproveShowing approves a pending showing.
func (s *Server) apiApproveShowing(w http.ResponseWriter, r *http.Request) {
	sh, err := s.showings.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowing(sh), http.StatusOK)
}

// apiDeclineShowing declines a pending showing.
func (s *Server) apiDeclineShowing(w http.ResponseWriter, r *http.Request) {
	sh, err := s.showings.Decline(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowing(sh), http.StatusOK)
}

// apiRescheduleShowing moves a showing to a new start time.
func (s *Server) apiRescheduleShowing(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start string `json:"start"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := showing.ParseStart(req.Start)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	sh, err := s.showings.Reschedule(r.Context(), r.PathValue("id"), start)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, redactShowing(sh), http.StatusOK)
}

// apiLockboxCode returns the access code of an approved showing.
func (s *Server) apiLockboxCode(w http.ResponseWriter, r *http.Request) {
	cred, err := s.showings.LockboxCode(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, cred, http.StatusOK)
}

// apiShowingFeedback records a buyer's rating of a showing.
func (s *Server) apiShowingFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fb, err := s.showings.SubmitFeedback(r.Context(), r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, fb, http.StatusCreated)
}
