// Package nxml extracts title and body text from NXML article files.
//
// The document schema itself is an external contract: the title comes
// from the first <article-title> element and the body is the text of
// every <p> element under <body>, joined with newlines.
package nxml

import (
	"encoding/xml"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vigilab/vigirag/internal/core/domain"
	"github.com/vigilab/vigirag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser parses NXML files into transient Documents.
type Normaliser struct{}

// New creates a new NXML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// NormaliseFile parses the NXML file at path.
func (n *Normaliser) NormaliseFile(path string) (*domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := n.Normalise(f)
	if err != nil {
		return nil, err
	}
	doc.Source = filepath.Base(path)
	return doc, nil
}

// Normalise parses NXML from a reader.
func (n *Normaliser) Normalise(r io.Reader) (*domain.Document, error) {
	dec := xml.NewDecoder(r)

	var (
		title      strings.Builder
		paragraphs []string
		current    strings.Builder

		inTitle bool
		inBody  bool
		inPara  bool
		// Only the leading character data of each <p> is collected,
		// up to its first child element. That matches the schema
		// contract for paragraph text.
		paraDone  bool
		paraDepth int
		titleSeen bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "article-title":
				if !titleSeen {
					inTitle = true
				}
			case "body":
				inBody = true
			case "p":
				if inBody && !inPara {
					inPara = true
					paraDone = false
					current.Reset()
					continue
				}
				if inPara {
					paraDone = true
					paraDepth++
				}
			default:
				if inPara {
					paraDone = true
					paraDepth++
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "article-title":
				if inTitle {
					inTitle = false
					titleSeen = true
				}
			case "body":
				inBody = false
			case "p":
				if inPara && paraDepth == 0 {
					inPara = false
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					continue
				}
				if inPara {
					paraDepth--
				}
			default:
				if inPara && paraDepth > 0 {
					paraDepth--
				}
			}
		case xml.CharData:
			if inTitle {
				title.Write(t)
			}
			if inPara && !paraDone {
				current.Write(t)
			}
		}
	}

	return &domain.Document{
		Title: strings.TrimSpace(title.String()),
		Body:  strings.TrimSpace(strings.Join(paragraphs, "\n")),
	}, nil
}
