// Package content holds the publishing domain: content items, the row
// mapping used by the store, slug derivation and the listing filters the
// public pages are built from.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Author is the byline attached to a content item.
type Author struct {
	Name        string   `json:"name,omitempty"`
	Credentials []string `json:"credentials"`
	LinkedIn    *string  `json:"linkedin,omitempty"`
	Email       *string  `json:"email,omitempty"`
}

// Item is a single publishable unit: an article, blog post, paper or policy
// recommendation. Pointer fields are optional; nil means absent.
type Item struct {
	ID                     string   `json:"id"`
	Title                  *string  `json:"title,omitempty"`
	Subtitle               *string  `json:"subtitle,omitempty"`
	Slug                   string   `json:"slug"`
	Author                 *Author  `json:"author,omitempty"`
	PublishedDate          *string  `json:"publishedDate,omitempty"`
	LawArea                *string  `json:"lawArea,omitempty"`
	Jurisdiction           *string  `json:"jurisdiction,omitempty"`
	ContentType            *string  `json:"contentType,omitempty"`
	IsPolicyRecommendation bool     `json:"isPolicyRecommendation"`
	PolicyTheme            *string  `json:"policyTheme,omitempty"`
	Content                *string  `json:"content,omitempty"`
	Excerpt                *string  `json:"excerpt,omitempty"`
	Tags                   []string `json:"tags"`
	Featured               bool     `json:"featured"`
	CategoryPath           *string  `json:"categoryPath,omitempty"`
}

// Row is the persisted shape of an item, one field per column.
type Row struct {
	ID                     string     `db:"id"`
	Title                  *string    `db:"title"`
	Subtitle               *string    `db:"subtitle"`
	Slug                   string     `db:"slug"`
	AuthorName             *string    `db:"author_name"`
	AuthorCredentials      StringList `db:"author_credentials"`
	AuthorLinkedIn         *string    `db:"author_linkedin"`
	AuthorEmail            *string    `db:"author_email"`
	PublishedDate          *string    `db:"published_date"`
	LawArea                *string    `db:"law_area"`
	Jurisdiction           *string    `db:"jurisdiction"`
	ContentType            *string    `db:"content_type"`
	IsPolicyRecommendation *bool      `db:"is_policy_recommendation"`
	PolicyTheme            *string    `db:"policy_theme"`
	Content                *string    `db:"content"`
	Excerpt                *string    `db:"excerpt"`
	Tags                   StringList `db:"tags"`
	Featured               *bool      `db:"featured"`
	CategoryPath           *string    `db:"category_path"`
}

// StringList is a list column stored as a JSON array. A NULL column scans
// into a nil list.
type StringList []string

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = out
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	encoded, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Str returns a pointer to s. Handy for building optional fields.
func Str(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Link is an extra profile link shown on the about page.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Profile is the site owner's author profile, a singleton.
type Profile struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Credentials []string `json:"credentials"`
	LinkedIn    string   `json:"linkedin,omitempty"`
	Email       string   `json:"email,omitempty"`
	OtherLinks  []Link   `json:"otherLinks"`
}
