// Package export renders a content item as a downloadable PDF.
package export

import (
	"errors"
	"html/template"
)

// Document is everything the print template needs.
type Document struct {
	Title         string
	Subtitle      string
	Author        string
	Credentials   []string
	PublishedDate string
	CategoryPath  string
	Tags          []string
	Body          template.HTML
	SourceURL     string
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

var (
	// ErrPDFDependencyMissing indicates no headless Chrome binary was found.
	ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
)
