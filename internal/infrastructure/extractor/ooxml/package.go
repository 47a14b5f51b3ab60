// Package ooxml reads parts out of Office Open XML containers (docx, pptx).
package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// MaxPartSize caps the decompressed size of a single XML part.
const MaxPartSize = 64 << 20

var (
	ErrPartNotFound = errors.New("package part not found")
	ErrPartTooLarge = errors.New("package part too large")
)

const relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"

type Package struct {
	parts map[string]*zip.File
}

func Open(body io.Reader) (*Package, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read package: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	parts := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		parts[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &Package{parts: parts}, nil
}

func (p *Package) Has(name string) bool {
	_, ok := p.parts[name]
	return ok
}

// Names returns the part names starting with prefix, in no particular order.
func (p *Package) Names(prefix string) []string {
	out := make([]string, 0)
	for name := range p.parts {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (p *Package) ReadPart(name string) ([]byte, error) {
	f, ok := p.parts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", name, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(io.LimitReader(rc, MaxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	if len(raw) > MaxPartSize {
		return nil, fmt.Errorf("%w: %s", ErrPartTooLarge, name)
	}
	return raw, nil
}

// Decoder returns a streaming XML decoder over the named part.
func (p *Package) Decoder(name string) (*xml.Decoder, error) {
	raw, err := p.ReadPart(name)
	if err != nil {
		return nil, err
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true
	return dec, nil
}

type Relationship struct {
	ID     string
	Type   string
	Target string
}

type relationshipsXML struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
		Mode   string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// Relationships resolves the internal relationships of part into package part
// names. Use "" for the package-level relationships.
func (p *Package) Relationships(part string) ([]Relationship, error) {
	dir, file := path.Split(part)
	relsName := path.Join(dir, "_rels", file+".rels")

	raw, err := p.ReadPart(relsName)
	if err != nil {
		return nil, err
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", relsName, err)
	}

	out := make([]Relationship, 0, len(rels.Items))
	for _, rel := range rels.Items {
		if strings.EqualFold(rel.Mode, "External") {
			continue
		}
		target := rel.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join(dir, target)
		}
		out = append(out, Relationship{ID: rel.ID, Type: rel.Type, Target: target})
	}
	return out, nil
}

// MainPart returns the office document part named by the package relationships,
// or fallback when the package does not declare one.
func (p *Package) MainPart(fallback string) string {
	rels, err := p.Relationships("")
	if err == nil {
		for _, rel := range rels {
			if rel.Type == relTypeOfficeDocument && p.Has(rel.Target) {
				return rel.Target
			}
		}
	}
	return fallback
}
