package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/bjarke-xyz/mortgage-intake/internal/export"
	"github.com/bjarke-xyz/mortgage-intake/internal/intake"
	"github.com/go-chi/chi/v5"
	"github.com/xeipuuv/gojsonschema"
)

type createApplicationResponse struct {
	OK        bool      `json:"ok"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, intake.MaxBody)
	fields, err := intake.DecodeRequest(r)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedMedia):
			errorJSON(w, http.StatusUnsupportedMediaType, "Unsupported Content-Type", "")
		default:
			errorJSON(w, http.StatusBadRequest, "Invalid body", err.Error())
		}
		return
	}

	submission, err := s.encoder.Encode(fields)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Missing applicant data", "")
		return
	}

	app := domain.NewApplication(submission)
	if err := s.appRepository.Create(r.Context(), &app); err != nil {
		s.logger.Error("error creating application", "error", err)
		errorJSON(w, http.StatusInternalServerError, "Insert failed", err.Error())
		return
	}
	s.metrics.ApplicationsCreated.Inc()
	s.logger.Info("application created", "applicationId", app.ID)

	jsonResponse(w, http.StatusCreated, createApplicationResponse{OK: true, ID: app.ID, CreatedAt: app.CreatedAt})
}

type applicationView struct {
	ID               string        `json:"id"`
	Status           string        `json:"status"`
	Applicant        domain.Bucket `json:"applicant"`
	CoApplicant      domain.Bucket `json:"co_applicant"`
	Reference        domain.Bucket `json:"reference"`
	Declarations     domain.Bucket `json:"declarations"`
	Consent          domain.Bucket `json:"consent"`
	Assets           domain.Bucket `json:"assets"`
	Liabilities      domain.Bucket `json:"liabilities"`
	Totals           domain.Bucket `json:"totals"`
	FinancingDetails domain.Bucket `json:"financing_details"`
	ApplicantName    *string       `json:"applicant_name"`
	CoApplicantName  *string       `json:"coapplicant_name"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        *time.Time    `json:"updated_at"`
}

func newApplicationView(app domain.Application) applicationView {
	return applicationView{
		ID:               app.ID,
		Status:           app.Status,
		Applicant:        app.Applicant,
		CoApplicant:      app.CoApplicant,
		Reference:        app.Reference,
		Declarations:     app.Declarations,
		Consent:          app.Consent,
		Assets:           app.Assets,
		Liabilities:      app.Liabilities,
		Totals:           app.Totals,
		FinancingDetails: app.FinancingDetails,
		ApplicantName:    export.FullName(app.Applicant, "app"),
		CoApplicantName:  export.FullName(app.CoApplicant, "co"),
		CreatedAt:        app.CreatedAt,
		UpdatedAt:        app.UpdatedAt,
	}
}

func (s *server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	app, err := s.appRepository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(w, http.StatusNotFound, "Not found", "")
			return
		}
		s.logger.Error("error getting application", "error", err, "applicationId", id)
		errorJSON(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}

	format, err := export.FormatFromRequest(r.URL.Query(), r.Header.Get("Accept"))
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Unsupported format", err.Error())
		return
	}
	if format == export.FormatJSON {
		jsonResponse(w, http.StatusOK, newApplicationView(app))
		return
	}

	result, err := s.exporter.Export(r.Context(), app, format)
	if err != nil {
		s.logger.Error("error exporting application", "error", err, "applicationId", id, "format", format)
		errorJSON(w, http.StatusInternalServerError, "Export failed", err.Error())
		return
	}
	s.metrics.DocumentsRendered.WithLabelValues(string(format)).Inc()

	noStore(w)
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

var statusSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["status"],
	"properties": {
		"status": {"type": "string", "minLength": 1, "maxLength": 64, "pattern": "\\S"}
	}
}`)

type patchApplicationInput struct {
	Status string `json:"status"`
}

type patchApplicationResponse struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func validateStatusInput(body []byte) (patchApplicationInput, error) {
	result, err := gojsonschema.Validate(statusSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return patchApplicationInput{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return patchApplicationInput{}, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	input := patchApplicationInput{}
	if err := json.Unmarshal(body, &input); err != nil {
		return patchApplicationInput{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	input.Status = strings.TrimSpace(input.Status)
	return input, nil
}

const maxPatchBody = 1 << 16

func (s *server) handlePatchApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := readBody(r, maxPatchBody)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	input, err := validateStatusInput(body)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid status", err.Error())
		return
	}

	app, err := s.appRepository.UpdateStatus(r.Context(), id, input.Status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			errorJSON(w, http.StatusNotFound, "Not found", "")
			return
		}
		s.logger.Error("error updating status", "error", err, "applicationId", id)
		errorJSON(w, http.StatusInternalServerError, "Update failed", err.Error())
		return
	}
	s.metrics.StatusUpdates.Inc()
	s.publishStatus(app)

	jsonResponse(w, http.StatusOK, patchApplicationResponse{ID: app.ID, Status: app.Status, UpdatedAt: app.UpdatedAt})
}
