package export

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFiles embed.FS

var termSheetTemplate = template.Must(
	template.New("termsheet.html").ParseFS(templateFiles, "templates/termsheet.html"))

// RenderHTML lays out a term sheet as a standalone printable page.
func RenderHTML(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := termSheetTemplate.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
