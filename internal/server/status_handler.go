package server

import (
	"errors"
	"net/http"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/bjarke-xyz/mortgage-intake/internal/export"
	"github.com/bjarke-xyz/mortgage-intake/internal/server/html"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

func (s *server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	params := html.StatusParams{Title: "Application status", ShortID: html.ShortID(id)}

	app, err := s.appRepository.GetByID(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		params.Error = "Could not load application"
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
			params.Error = "Application not found"
		} else {
			s.logger.Error("error getting application", "error", err, "applicationId", id)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = html.StatusPage(w, params)
		return
	}

	params.ShortID = html.ShortID(app.ID)
	params.Status = html.DisplayStatus(app.Status)
	params.ApplicantName = lo.FromPtr(export.FullName(app.Applicant, "app"))
	params.CoApplicantName = lo.FromPtr(export.FullName(app.CoApplicant, "co"))

	noStore(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.StatusPage(w, params); err != nil {
		s.logger.Error("error rendering status page", "error", err)
	}
}
