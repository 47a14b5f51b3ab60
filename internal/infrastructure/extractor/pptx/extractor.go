package pptx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/kirillkom/fake-news-detector/internal/infrastructure/extractor/ooxml"
)

const (
	defaultPresentationPart = "ppt/presentation.xml"
	slidePartPrefix         = "ppt/slides/slide"
	relTypeSlide            = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
)

var ErrNotPresentation = errors.New("package is not a presentation")

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every top-level shape on every slide, in slide
// order, joined by spaces.
func (e *Extractor) Extract(_ context.Context, body io.Reader) (string, error) {
	pkg, err := ooxml.Open(body)
	if err != nil {
		return "", err
	}

	slides := slideOrder(pkg)
	if len(slides) == 0 {
		if !pkg.Has(defaultPresentationPart) && len(pkg.Names("ppt/")) == 0 {
			return "", ErrNotPresentation
		}
		return "", nil
	}

	texts := make([]string, 0, len(slides)*4)
	for _, slide := range slides {
		dec, err := pkg.Decoder(slide)
		if err != nil {
			return "", err
		}
		shapes, err := readShapeTexts(dec)
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", slide, err)
		}
		texts = append(texts, shapes...)
	}
	return strings.Join(texts, " "), nil
}

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideOrder lists slide parts in presentation order. Packages without a usable
// slide list fall back to the numeric suffix of the slide part names.
func slideOrder(pkg *ooxml.Package) []string {
	presentation := pkg.MainPart(defaultPresentationPart)
	if ordered, ok := slidesFromPresentation(pkg, presentation); ok {
		return ordered
	}

	names := make([]string, 0)
	for _, name := range pkg.Names(slidePartPrefix) {
		if path.Dir(name) == "ppt/slides" && strings.HasSuffix(name, ".xml") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return slideNumber(names[i]) < slideNumber(names[j])
	})
	return names
}

func slidesFromPresentation(pkg *ooxml.Package, presentation string) ([]string, bool) {
	raw, err := pkg.ReadPart(presentation)
	if err != nil {
		return nil, false
	}
	var doc presentationXML
	if err := xml.Unmarshal(raw, &doc); err != nil || len(doc.SlideIDs) == 0 {
		return nil, false
	}
	rels, err := pkg.Relationships(presentation)
	if err != nil {
		return nil, false
	}
	targets := make(map[string]string, len(rels))
	for _, rel := range rels {
		if rel.Type == relTypeSlide {
			targets[rel.ID] = rel.Target
		}
	}

	out := make([]string, 0, len(doc.SlideIDs))
	for _, id := range doc.SlideIDs {
		target, ok := targets[id.RelID]
		if !ok || !pkg.Has(target) {
			return nil, false
		}
		out = append(out, target)
	}
	return out, true
}

func slideNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), ".xml")
	n, err := strconv.Atoi(strings.TrimPrefix(base, "slide"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// readShapeTexts returns one entry per shape placed directly on the slide's
// shape tree. Paragraphs inside a shape are joined by newlines; a line break
// inside a paragraph becomes a vertical tab.
func readShapeTexts(dec *xml.Decoder) ([]string, error) {
	var (
		stack      []string
		shapes     []string
		paragraphs []string
		current    strings.Builder
		inShape    bool
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
			switch {
			case isTopLevelShape(stack):
				inShape = true
				paragraphs = paragraphs[:0]
			case inShape && isShapeParagraph(stack):
				inPara = true
				current.Reset()
			case inPara && isParagraphChild(stack, "br"):
				current.WriteByte('\v')
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unbalanced element %s", t.Name.Local)
			}
			switch {
			case inPara && isShapeParagraph(stack):
				paragraphs = append(paragraphs, current.String())
				inPara = false
			case inShape && isTopLevelShape(stack):
				shapes = append(shapes, strings.Join(paragraphs, "\n"))
				inShape = false
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if inPara && isRunText(stack) {
				current.Write(t)
			}
		}
	}
	return shapes, nil
}

func isTopLevelShape(stack []string) bool {
	n := len(stack)
	return n >= 2 && stack[n-1] == "sp" && stack[n-2] == "spTree"
}

func isShapeParagraph(stack []string) bool {
	n := len(stack)
	return n >= 4 && stack[n-1] == "p" && stack[n-2] == "txBody" && isTopLevelShape(stack[:n-2])
}

func isParagraphChild(stack []string, name string) bool {
	n := len(stack)
	return n >= 5 && stack[n-1] == name && isShapeParagraph(stack[:n-1])
}

func isRunText(stack []string) bool {
	n := len(stack)
	if n < 6 || stack[n-1] != "t" {
		return false
	}
	return isParagraphChild(stack[:n-1], "r") || isParagraphChild(stack[:n-1], "fld")
}
