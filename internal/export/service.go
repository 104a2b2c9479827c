package export

import (
	"context"
	"fmt"
	"strings"

	"folio/site/internal/content"
	"folio/site/internal/markdown"
)

// Service exports content items.
type Service struct {
	pdf      PDFRenderer
	markdown *markdown.Renderer
	siteURL  string
}

// NewService creates an export service. siteURL prefixes the source link
// printed at the bottom of each page.
func NewService(pdf PDFRenderer, md *markdown.Renderer, siteURL string) *Service {
	return &Service{pdf: pdf, markdown: md, siteURL: siteURL}
}

// Document builds the print model for item.
func (s *Service) Document(item content.Item, defaultAuthor string) Document {
	doc := Document{
		Title:         content.Deref(item.Title),
		Subtitle:      content.Deref(item.Subtitle),
		Author:        defaultAuthor,
		PublishedDate: content.Deref(item.PublishedDate),
		CategoryPath:  content.Deref(item.CategoryPath),
		Tags:          item.Tags,
		Body:          s.markdown.HTML(content.Deref(item.Content)),
	}
	if doc.Title == "" {
		doc.Title = "Untitled"
	}
	if item.Author != nil {
		if item.Author.Name != "" {
			doc.Author = item.Author.Name
		}
		doc.Credentials = item.Author.Credentials
	}
	if s.siteURL != "" {
		doc.SourceURL = s.siteURL + "/content/" + item.Slug
	}
	return doc
}

// PDF renders item as a PDF attachment.
func (s *Service) PDF(ctx context.Context, item content.Item, defaultAuthor string) (*Result, error) {
	html, err := RenderHTML(s.Document(item, defaultAuthor))
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	data, err := s.pdf.PDF(ctx, html)
	if err != nil {
		return nil, err
	}
	return &Result{
		Data:     data,
		Filename: Filename(item),
		MimeType: "application/pdf",
	}, nil
}

const maxFilenameLen = 80

// Filename is the download name for item's PDF. It is always a plain ASCII
// slug, whatever the stored slug holds.
func Filename(item content.Item) string {
	name := content.Slugify(item.Slug)
	if name == "" {
		name = content.Slugify(content.Deref(item.Title))
	}
	if len(name) > maxFilenameLen {
		name = strings.TrimRight(name[:maxFilenameLen], "-")
	}
	if name == "" {
		name = "article"
	}
	return name + ".pdf"
}
