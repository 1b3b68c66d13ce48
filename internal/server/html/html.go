package html

import (
	"embed"
	"html/template"
	"io"
	"unicode"
	"unicode/utf8"
)

//go:embed pages/*.html
var files embed.FS

var statusTemplate = parse("pages/status.html")

type StatusParams struct {
	Title           string
	Error           string
	ShortID         string
	Status          string
	ApplicantName   string
	CoApplicantName string
}

func StatusPage(w io.Writer, p StatusParams) error {
	return statusTemplate.Execute(w, p)
}

// ShortID is the last four characters of an application id.
func ShortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[len(id)-4:]
}

// DisplayStatus capitalizes the first letter of a status label.
func DisplayStatus(status string) string {
	r, size := utf8.DecodeRuneInString(status)
	if r == utf8.RuneError {
		return status
	}
	return string(unicode.ToUpper(r)) + status[size:]
}

func parse(file string) *template.Template {
	return template.Must(
		template.New("layout.html").ParseFS(files, "pages/layout.html", file))
}
