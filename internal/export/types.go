// Package export renders stored applications into downloadable term sheets.
package export

import "errors"

// Format is a requested representation of an application.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

const (
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePDF  = "application/pdf"
	MimeHTML = "text/html; charset=utf-8"
)

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrUnsupportedFormat indicates a format that has no renderer.
	ErrUnsupportedFormat = errors.New("export format not supported")
	// ErrPDFDependencyMissing indicates no headless browser is available for PDF rendering.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
