package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	app := sampleApplication()
	app.Applicant["app-email"] = "<script>alert(1)</script>"
	html, err := RenderHTML(BuildTermSheet(app, Options{}))
	require.NoError(t, err)

	out := string(html)
	assert.Contains(t, out, "Mortgage Financing Term Sheet")
	assert.Contains(t, out, "$400,000")
	assert.Contains(t, out, "Charles Babbage")
	assert.NotContains(t, out, "<script>")
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(body)
	}
	return files
}

func TestRenderDOCX(t *testing.T) {
	app := sampleApplication()
	app.Applicant["pet-name"] = "Tom & Jerry"
	data, err := RenderDOCX(BuildTermSheet(app, Options{}), time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	files := readZip(t, data)
	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "_rels/.rels")
	require.Contains(t, files, "docProps/core.xml")
	require.Contains(t, files, "word/document.xml")

	doc := files["word/document.xml"]
	assert.Contains(t, doc, "Mortgage Financing Term Sheet")
	assert.Contains(t, doc, "$400,000")
	assert.Contains(t, doc, "Tom &amp; Jerry")
	assert.Contains(t, doc, `<w:tab w:val="right"`)
	assert.Contains(t, files["docProps/core.xml"], "2025-02-12T00:00:00Z")
}

type recordingArchiver struct {
	keys []string
	err  error
}

func (a *recordingArchiver) Archive(_ context.Context, id string, r *Result) error {
	a.keys = append(a.keys, ObjectKey(id, r.Filename))
	return a.err
}

func TestServiceExport(t *testing.T) {
	archiver := &recordingArchiver{err: errors.New("bucket offline")}
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), ServiceOptions{Archiver: archiver})
	app := sampleApplication()

	res, err := svc.Export(context.Background(), app, FormatDOCX)
	require.NoError(t, err)
	assert.Equal(t, "application-"+app.ID+".docx", res.Filename)
	assert.Equal(t, MimeDOCX, res.MimeType)

	res, err = svc.Export(context.Background(), app, FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "application-"+app.ID+".html", res.Filename)
	assert.Equal(t, MimeHTML, res.MimeType)

	assert.Equal(t, []string{
		"applications/" + app.ID + "/application-" + app.ID + ".docx",
		"applications/" + app.ID + "/application-" + app.ID + ".html",
	}, archiver.keys)

	_, err = svc.Export(context.Background(), app, Format("xlsx"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestServiceExportPDF(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), ServiceOptions{ChromePath: "definitely-not-a-browser"})
	_, err := svc.Export(context.Background(), sampleApplication(), FormatPDF)
	assert.ErrorIs(t, err, ErrPDFDependencyMissing)

	if _, err := findBrowser(""); err != nil {
		t.Skip("no headless browser installed")
	}
	svc = NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), ServiceOptions{})
	res, err := svc.Export(context.Background(), sampleApplication(), FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("%PDF")))
	assert.Equal(t, MimePDF, res.MimeType)
}

func TestFormatFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		accept  string
		want    Format
		wantErr bool
	}{
		{"default", "", "", FormatJSON, false},
		{"query wins", "format=pdf", "application/json", FormatPDF, false},
		{"query case", "format=DOCX", "", FormatDOCX, false},
		{"unknown query", "format=xlsx", "", "", true},
		{"accept docx", "", MimeDOCX, FormatDOCX, false},
		{"browser accept", "", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8", FormatJSON, false},
		{"query html", "format=html", "", FormatHTML, false},
		{"accept json first", "", "application/json, application/pdf", FormatJSON, false},
		{"accept wildcard", "", "*/*", FormatJSON, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := FormatFromRequest(q, tt.accept)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
