// Package extract turns uploaded documents into bounded plain text for prompts.
//
// Extraction is best-effort: a file that cannot be parsed yields an empty
// Document with Failed set, never an error.
package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hetulpatel/PitchDeck/internal/logging"
)

const (
	DefaultMaxChars    = 10000
	DefaultMaxPDFPages = 20
)

// Kind is the handling path chosen for a file.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindDOCX Kind = "docx"
	KindXLSX Kind = "xlsx"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

// Document is the text rendition of one uploaded file.
type Document struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Kind        Kind   `json:"kind"`
	Text        string `json:"text"`
	Truncated   bool   `json:"truncated,omitempty"`
	Failed      bool   `json:"failed,omitempty"`
}

// Config controls extraction limits. Zero values take the defaults.
type Config struct {
	MaxChars    int
	MaxPDFPages int
}

// Extractor is safe for concurrent use; it holds no mutable state.
type Extractor struct {
	maxChars    int
	maxPDFPages int
}

// New builds an Extractor from cfg.
func New(cfg Config) *Extractor {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	maxPages := cfg.MaxPDFPages
	if maxPages < 0 {
		maxPages = 0
	} else if maxPages == 0 {
		maxPages = DefaultMaxPDFPages
	}
	return &Extractor{maxChars: maxChars, maxPDFPages: maxPages}
}

// MaxChars returns the per-file character cap.
func (e *Extractor) MaxChars() int {
	return e.maxChars
}

// Extract returns the text of data, capped at MaxChars runes.
func (e *Extractor) Extract(ctx context.Context, filename, contentType string, data []byte) Document {
	kind := DetectKind(filename, contentType)
	doc := Document{
		Filename:    filepath.Base(strings.TrimSpace(filename)),
		ContentType: contentType,
		Kind:        kind,
	}

	text, err := e.extract(ctx, kind, data)
	if err != nil {
		logging.Warnf("[extract] %s (%s) failed: %v", doc.Filename, kind, err)
		doc.Failed = true
		return doc
	}

	doc.Text, doc.Truncated = Truncate(strings.TrimSpace(text), e.maxChars)
	logging.Debugf("[extract] %s (%s): %d chars (truncated=%t)", doc.Filename, kind, utf8.RuneCountInString(doc.Text), doc.Truncated)
	return doc
}

func (e *Extractor) extract(ctx context.Context, kind Kind, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// Third-party parsers panic on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	switch kind {
	case KindPDF:
		return extractPDF(ctx, data, e.maxPDFPages)
	case KindDOCX:
		return extractDOCX(data)
	case KindXLSX:
		return extractXLSX(data, e.maxChars)
	case KindHTML:
		return extractHTML(data)
	default:
		return decodeText(data), nil
	}
}

// DetectKind picks a handling path from the filename suffix, then the declared
// content type. Anything unrecognised is treated as text.
func DetectKind(filename, contentType string) Kind {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(filename))) {
	case ".pdf":
		return KindPDF
	case ".docx":
		return KindDOCX
	case ".xlsx":
		return KindXLSX
	case ".html", ".htm":
		return KindHTML
	case ".txt", ".md", ".csv", ".doc", ".rtf", ".json":
		return KindText
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch ct {
	case "application/pdf":
		return KindPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindDOCX
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return KindXLSX
	case "text/html":
		return KindHTML
	default:
		return KindText
	}
}

// Truncate cuts s to at most limit runes. It reports whether anything was cut.
func Truncate(s string, limit int) (string, bool) {
	if limit <= 0 || len(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

func decodeText(data []byte) string {
	s := strings.ToValidUTF8(string(data), "")
	return strings.TrimPrefix(s, "\ufeff")
}
