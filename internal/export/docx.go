package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

	docxCoreTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
<dc:title>%s</dc:title>
<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
</cp:coreProperties>`

	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	// Letter page text width in twentieths of a point.
	signatureTabStop = 9000
)

// RenderDOCX lays out a term sheet as a WordprocessingML package.
func RenderDOCX(doc Document, created time.Time) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", documentXML(doc)},
		{"docProps/core.xml", fmt.Sprintf(docxCoreTemplate, escapeXML(doc.Title), created.UTC().Format(time.RFC3339))},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}

func documentXML(doc Document) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString(`<w:document xmlns:w="` + wordNamespace + `"><w:body>`)

	b.WriteString(paragraph(run(doc.Title, true, 36)))
	b.WriteString(paragraph(run(doc.Subtitle, false, 20)))
	b.WriteString(paragraph(run(doc.Issued, false, 20)))

	for _, s := range doc.Sections {
		b.WriteString(paragraph(run(s.Heading, true, 26)))
		for _, p := range s.Paragraphs {
			b.WriteString(paragraph(run(p, false, 22)))
		}
		if len(s.Rows) > 0 {
			b.WriteString(table(s.Rows))
		}
		for _, sig := range s.Signatures {
			b.WriteString(signatureParagraph(sig))
		}
	}

	b.WriteString(paragraph(run(doc.Notice, false, 18)))
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1080" w:right="1080" w:bottom="1080" w:left="1080" w:header="720" w:footer="720" w:gutter="0"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func paragraph(runs ...string) string {
	return "<w:p>" + strings.Join(runs, "") + "</w:p>"
}

// run emits a text run. size is in half-points.
func run(text string, bold bool, size int) string {
	var props strings.Builder
	props.WriteString("<w:rPr>")
	if bold {
		props.WriteString("<w:b/>")
	}
	fmt.Fprintf(&props, `<w:sz w:val="%d"/>`, size)
	props.WriteString("</w:rPr>")
	return "<w:r>" + props.String() + `<w:t xml:space="preserve">` + escapeXML(text) + "</w:t></w:r>"
}

func table(rows []Row) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>` +
		`<w:tblBorders><w:insideH w:val="single" w:sz="4" w:space="0" w:color="DDDDDD"/></w:tblBorders></w:tblPr>`)
	b.WriteString(`<w:tblGrid><w:gridCol w:w="3500"/><w:gridCol w:w="6500"/></w:tblGrid>`)
	for _, r := range rows {
		b.WriteString("<w:tr>")
		b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="1750" w:type="pct"/></w:tcPr>` + paragraph(run(r.Label, true, 20)) + "</w:tc>")
		b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="3250" w:type="pct"/></w:tcPr>` + paragraph(run(r.Value, false, 20)) + "</w:tc>")
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
	return b.String()
}

func signatureParagraph(sig SignatureLine) string {
	date := "Date: " + sig.Date
	return fmt.Sprintf(`<w:p><w:pPr><w:spacing w:before="480"/><w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs></w:pPr>%s<w:r><w:tab/></w:r>%s</w:p>`,
		signatureTabStop, run("______________________________  "+sig.Name, false, 22), run(date, false, 22))
}

func escapeXML(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return ""
	}
	return b.String()
}
