// Package search answers site search queries from Meilisearch when it is
// reachable and from an in-memory scan of the content otherwise.
package search

import (
	"folio/site/internal/content"
)

// Result is a single search hit returned to the caller.
type Result struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	ContentType string `json:"contentType,omitempty"`
	LawArea     string `json:"lawArea,omitempty"`
}

// Query describes a search request.
type Query struct {
	Text  string
	Limit int
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
	Source  string   `json:"source"`
}

// Record is the document pushed to the index for one content item.
type Record struct {
	ID                     string   `json:"id"`
	Slug                   string   `json:"slug"`
	Title                  string   `json:"title"`
	Subtitle               string   `json:"subtitle"`
	Excerpt                string   `json:"excerpt"`
	Tags                   []string `json:"tags"`
	LawArea                string   `json:"lawArea"`
	Jurisdiction           string   `json:"jurisdiction"`
	ContentType            string   `json:"contentType"`
	IsPolicyRecommendation bool     `json:"isPolicyRecommendation"`
	PublishedDate          string   `json:"publishedDate"`
}

// RecordFromItem flattens an item into its index document.
func RecordFromItem(item content.Item) Record {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return Record{
		ID:                     item.ID,
		Slug:                   item.Slug,
		Title:                  content.Deref(item.Title),
		Subtitle:               content.Deref(item.Subtitle),
		Excerpt:                content.Deref(item.Excerpt),
		Tags:                   tags,
		LawArea:                content.Deref(item.LawArea),
		Jurisdiction:           content.Deref(item.Jurisdiction),
		ContentType:            content.Deref(item.ContentType),
		IsPolicyRecommendation: item.IsPolicyRecommendation,
		PublishedDate:          content.Deref(item.PublishedDate),
	}
}

// resultFromItem is used by the in-memory fallback.
func resultFromItem(item content.Item) Result {
	snippet := content.Deref(item.Excerpt)
	if snippet == "" {
		snippet = content.Deref(item.Subtitle)
	}
	return Result{
		ID:          item.ID,
		Slug:        item.Slug,
		Title:       content.Deref(item.Title),
		Snippet:     snippet,
		ContentType: content.Deref(item.ContentType),
		LawArea:     content.Deref(item.LawArea),
	}
}
