// Package extractortest builds small in-memory documents for extractor tests.
package extractortest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
	"strings"
)

const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsP   = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRel = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = nsR + "/officeDocument"
	relSlide          = nsR + "/slide"
)

// Part is one named entry of a zip package.
type Part struct {
	Name string
	Body string
}

// Package zips parts in the given order.
func Package(parts ...Part) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.Create(p.Name)
		if err != nil {
			panic(fmt.Sprintf("create zip entry %s: %v", p.Name, err))
		}
		if _, err := w.Write([]byte(p.Body)); err != nil {
			panic(fmt.Sprintf("write zip entry %s: %v", p.Name, err))
		}
	}
	if err := zw.Close(); err != nil {
		panic(fmt.Sprintf("close zip: %v", err))
	}
	return buf.Bytes()
}

func rootRels(target string) Part {
	return Part{
		Name: "_rels/.rels",
		Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="` + nsRel + `">` +
			`<Relationship Id="rId1" Type="` + relOfficeDocument + `" Target="` + target + `"/>` +
			`</Relationships>`,
	}
}

// DOCXBody wraps raw body XML into a minimal word document part.
func DOCXBody(bodyXML string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + nsW + `"><w:body>` + bodyXML + `</w:body></w:document>`
}

// DOCXParagraph renders one paragraph with a single run.
func DOCXParagraph(text string) string {
	if text == "" {
		return `<w:p/>`
	}
	return `<w:p><w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r></w:p>`
}

// DOCXFromBody builds a Word document from raw body XML.
func DOCXFromBody(bodyXML string) []byte {
	return Package(
		Part{Name: "[Content_Types].xml", Body: `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		rootRels("word/document.xml"),
		Part{Name: "word/document.xml", Body: DOCXBody(bodyXML)},
	)
}

// DOCX builds a Word document with one paragraph per argument.
func DOCX(paragraphs ...string) []byte {
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(DOCXParagraph(p))
	}
	return DOCXFromBody(b.String())
}

// SlideXML renders a slide whose shape tree holds the given raw shape XML.
func SlideXML(shapesXML string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:p="` + nsP + `" xmlns:a="` + nsA + `" xmlns:r="` + nsR + `">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr/><p:grpSpPr/>` + shapesXML + `</p:spTree></p:cSld></p:sld>`
}

// TextShape renders a text box shape, one paragraph per argument.
func TextShape(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr/><p:spPr/><p:txBody><a:bodyPr/>`)
	for _, p := range paragraphs {
		b.WriteString(`<a:p><a:r><a:t>` + html.EscapeString(p) + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

// PPTX builds a presentation; each slide is a list of text shapes with one paragraph each.
// Slide parts are written in reverse so readers must honour the presentation order.
func PPTX(slides ...[]string) []byte {
	raw := make([]string, 0, len(slides))
	for _, shapes := range slides {
		var b strings.Builder
		for _, s := range shapes {
			b.WriteString(TextShape(s))
		}
		raw = append(raw, SlideXML(b.String()))
	}
	return PPTXFromSlides(raw...)
}

// PPTXFromSlides builds a presentation from raw slide XML documents.
func PPTXFromSlides(slides ...string) []byte {
	var ids, rels strings.Builder
	for i := range slides {
		fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+10)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+10, relSlide, i+1)
	}

	parts := []Part{
		{Name: "[Content_Types].xml", Body: `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		rootRels("ppt/presentation.xml"),
		{
			Name: "ppt/presentation.xml",
			Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<p:presentation xmlns:p="` + nsP + `" xmlns:r="` + nsR + `">` +
				`<p:sldIdLst>` + ids.String() + `</p:sldIdLst></p:presentation>`,
		},
		{
			Name: "ppt/_rels/presentation.xml.rels",
			Body: `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
				`<Relationships xmlns="` + nsRel + `">` + rels.String() + `</Relationships>`,
		},
	}
	for i := len(slides) - 1; i >= 0; i-- {
		parts = append(parts, Part{Name: fmt.Sprintf("ppt/slides/slide%d.xml", i+1), Body: slides[i]})
	}
	return Package(parts...)
}

// PDF builds a minimal single-font PDF with one page per argument. Page text
// must not contain parentheses or backslashes.
func PDF(pages ...string) []byte {
	var buf bytes.Buffer
	offsets := make([]int, 0, 3+2*len(pages))

	writeObj := func(num int, body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(4+2*i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			5+2*i,
		))
		writeObj(5+2*i, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefOffset := buf.Len()
	size := len(offsets) + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefOffset)
	return buf.Bytes()
}
