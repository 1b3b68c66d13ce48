package export

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
)

// Service renders applications into term sheet documents.
type Service struct {
	logger     *slog.Logger
	lenderName string
	chromePath string
	archiver   Archiver
	now        func() time.Time
}

type ServiceOptions struct {
	LenderName string
	ChromePath string
	// Archiver is optional.
	Archiver Archiver
}

func NewService(logger *slog.Logger, opts ServiceOptions) *Service {
	return &Service{
		logger:     logger,
		lenderName: opts.LenderName,
		chromePath: opts.ChromePath,
		archiver:   opts.Archiver,
		now:        time.Now,
	}
}

// Export renders an application as html, pdf or docx.
func (s *Service) Export(ctx context.Context, app domain.Application, format Format) (*Result, error) {
	issued := s.now()
	doc := BuildTermSheet(app, Options{LenderName: s.lenderName, IssuedAt: issued})
	base := sanitizeFilename("application-" + app.ID)

	var result *Result
	switch format {
	case FormatHTML:
		data, err := RenderHTML(doc)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		result = &Result{Data: data, Filename: base + ".html", MimeType: MimeHTML}
	case FormatDOCX:
		data, err := RenderDOCX(doc, issued)
		if err != nil {
			return nil, fmt.Errorf("render docx: %w", err)
		}
		result = &Result{Data: data, Filename: base + ".docx", MimeType: MimeDOCX}
	case FormatPDF:
		data, err := RenderPDF(ctx, doc, s.chromePath)
		if err != nil {
			return nil, err
		}
		result = &Result{Data: data, Filename: base + ".pdf", MimeType: MimePDF}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, app.ID, result); err != nil {
			s.logger.Error("failed to archive document", "error", err, "applicationId", app.ID, "filename", result.Filename)
		}
	}
	return result, nil
}

// FormatFromRequest picks the representation for a GET. An explicit format
// query parameter wins; otherwise only the PDF and DOCX types are negotiated
// from the Accept header and JSON is the default. HTML is served only when
// asked for by query. An unknown explicit format is an error.
func FormatFromRequest(query url.Values, accept string) (Format, error) {
	if raw := strings.ToLower(strings.TrimSpace(query.Get("format"))); raw != "" {
		switch f := Format(raw); f {
		case FormatJSON, FormatHTML, FormatPDF, FormatDOCX:
			return f, nil
		default:
			return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
		}
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "application/json":
			return FormatJSON, nil
		case MimePDF:
			return FormatPDF, nil
		case MimeDOCX:
			return FormatDOCX, nil
		}
	}
	return FormatJSON, nil
}
