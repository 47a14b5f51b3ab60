package docx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/ooxml"
)

const defaultDocumentPart = "word/document.xml"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the body-level paragraphs of a Word document joined by spaces.
func (e *Extractor) Extract(_ context.Context, body io.Reader) (string, error) {
	pkg, err := ooxml.Open(body)
	if err != nil {
		return "", err
	}
	dec, err := pkg.Decoder(pkg.MainPart(defaultDocumentPart))
	if err != nil {
		return "", err
	}

	paragraphs, err := readParagraphs(dec)
	if err != nil {
		return "", fmt.Errorf("parse document body: %w", err)
	}
	return strings.Join(paragraphs, " "), nil
}

func readParagraphs(dec *xml.Decoder) ([]string, error) {
	var (
		stack      []string
		paragraphs []string
		current    strings.Builder
		inPara     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			if isBodyParagraph(stack) {
				inPara = true
				current.Reset()
				continue
			}
			if !inPara {
				continue
			}
			switch runChild(stack) {
			case "tab", "ptab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			case "noBreakHyphen":
				current.WriteByte('-')
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced element %s", t.Name.Local)
			}
			if inPara && isBodyParagraph(stack) {
				paragraphs = append(paragraphs, current.String())
				inPara = false
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if inPara && runChild(stack) == "t" {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}

func isBodyParagraph(stack []string) bool {
	n := len(stack)
	return n >= 2 && stack[n-1] == "p" && stack[n-2] == "body"
}

// runChild returns the element name at the top of the stack when it is a direct
// child of a run that belongs to a body paragraph, directly or through a hyperlink.
func runChild(stack []string) string {
	n := len(stack)
	if n >= 4 && stack[n-2] == "r" && stack[n-3] == "p" && stack[n-4] == "body" {
		return stack[n-1]
	}
	if n >= 5 && stack[n-2] == "r" && stack[n-3] == "hyperlink" && stack[n-4] == "p" && stack[n-5] == "body" {
		return stack[n-1]
	}
	return ""
}
