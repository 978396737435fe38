package web

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/evcraddock/showing-hive/internal/schedule"
)

// apiListFiles returns the names of a property's stored documents.
func (s *Server) apiListFiles(w http.ResponseWriter, r *http.Request) {
	p, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	names, err := s.files.List(p.ID)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if names == nil {
		names = make([]string, 0)
	}
	apiJSON(w, names, http.StatusOK)
}

// apiUploadFile stores the raw request body as a property document,
// replacing any file of the same name.
func (s *Server) apiUploadFile(w http.ResponseWriter, r *http.Request) {
	p, err := s.props.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}

	name := r.PathValue("name")
	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := s.files.Write(p.ID, name, body); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			apiError(w, fmt.Sprintf("file exceeds %d bytes", tooBig.Limit), "invalid_input", http.StatusRequestEntityTooLarge)
			return
		}
		apiFail(w, r, err)
		return
	}
	apiJSON(w, map[string]string{"property_id": p.ID, "filename": name}, http.StatusCreated)
}

// apiListPackages returns a property's document packages.
func (s *Server) apiListPackages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := s.disclosures.ListPackages(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if pkgs == nil {
		pkgs = make([]*schedule.Package, 0)
	}
	apiJSON(w, pkgs, http.StatusOK)
}

// apiCreatePackage bundles uploaded documents into a package.
func (s *Server) apiCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string   `json:"name"`
		Filenames []string `json:"filenames"`
		IsPublic  bool     `json:"is_public"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	pkg, err := s.disclosures.CreatePackage(r.Context(), r.PathValue("id"), req.Name, req.Filenames, req.IsPublic)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, pkg, http.StatusCreated)
}

// apiListShares returns a property's disclosure shares.
func (s *Server) apiListShares(w http.ResponseWriter, r *http.Request) {
	shares, err := s.disclosures.ListShares(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if shares == nil {
		shares = make([]*schedule.Share, 0)
	}
	apiJSON(w, shares, http.StatusOK)
}

// apiRequestShare records a buyer's request for a package.
func (s *Server) apiRequestShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PackageID string          `json:"package_id"`
		Buyer     schedule.Person `json:"buyer"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	sh, err := s.disclosures.RequestShare(r.Context(), r.PathValue("id"), req.PackageID, req.Buyer)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sh, http.StatusCreated)
}

// apiGetShare returns a single share.
func (s *Server) apiGetShare(w http.ResponseWriter, r *http.Request) {
	sh, err := s.disclosures.GetShare(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sh, http.StatusOK)
}

// apiApproveShare grants a buyer access to a package.
func (s *Server) apiApproveShare(w http.ResponseWriter, r *http.Request) {
	sh, err := s.disclosures.ApproveShare(r.Context(), r.PathValue("id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, sh, http.StatusOK)
}

// apiDownloadFile streams one file of an approved share.
func (s *Server) apiDownloadFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	data, err := s.disclosures.DownloadFile(r.Context(), r.PathValue("id"), name)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("writing download", "share_id", r.PathValue("id"), "file", name, "err", err)
	}
}

// apiShareFeedback records a buyer's rating of a disclosure package.
func (s *Server) apiShareFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fb, err := s.disclosures.SubmitShareFeedback(r.Context(), r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	apiJSON(w, fb, http.StatusCreated)
}
