package content

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mapper converts between persisted rows and domain items. The defaults it
// applies on write are injected rather than read from globals.
type Mapper struct {
	DefaultAuthorName string
	Now               func() time.Time
	NewID             func() string
}

// NewMapper returns a mapper using the wall clock and random UUIDs.
func NewMapper(defaultAuthorName string) Mapper {
	return Mapper{
		DefaultAuthorName: defaultAuthorName,
		Now:               time.Now,
		NewID:             uuid.NewString,
	}
}

// ToDomain maps a row to an item. NULL scalars become absent; NULL lists
// become empty lists; NULL booleans become false.
func (Mapper) ToDomain(row Row) Item {
	item := Item{
		ID:                     row.ID,
		Title:                  nonEmpty(row.Title),
		Subtitle:               nonEmpty(row.Subtitle),
		Slug:                   row.Slug,
		PublishedDate:          nonEmpty(row.PublishedDate),
		LawArea:                clone(row.LawArea),
		Jurisdiction:           clone(row.Jurisdiction),
		ContentType:            clone(row.ContentType),
		IsPolicyRecommendation: row.IsPolicyRecommendation != nil && *row.IsPolicyRecommendation,
		PolicyTheme:            clone(row.PolicyTheme),
		Content:                clone(row.Content),
		Excerpt:                clone(row.Excerpt),
		Tags:                   list(row.Tags),
		Featured:               row.Featured != nil && *row.Featured,
		CategoryPath:           clone(row.CategoryPath),
	}
	if row.AuthorName != nil && *row.AuthorName != "" {
		item.Author = &Author{
			Name:        *row.AuthorName,
			Credentials: list(row.AuthorCredentials),
			LinkedIn:    clone(row.AuthorLinkedIn),
			Email:       clone(row.AuthorEmail),
		}
	}
	return item
}

// ToDomainAll maps a batch of rows, preserving order.
func (m Mapper) ToDomainAll(rows []Row) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, m.ToDomain(row))
	}
	return items
}

// ToRow maps an item to a row. idOverride, when non-empty, wins over the
// item's own id. The row always carries a slug and an author name.
func (m Mapper) ToRow(item Item, idOverride string) Row {
	id := idOverride
	if id == "" {
		id = item.ID
	}
	if id == "" {
		id = m.newID()
	}

	policy := item.IsPolicyRecommendation
	featured := item.Featured
	row := Row{
		ID:                     id,
		Title:                  clone(item.Title),
		Subtitle:               clone(item.Subtitle),
		Slug:                   m.slugFor(item),
		AuthorName:             Str(m.DefaultAuthorName),
		AuthorCredentials:      StringList{},
		PublishedDate:          clone(item.PublishedDate),
		LawArea:                clone(item.LawArea),
		Jurisdiction:           clone(item.Jurisdiction),
		ContentType:            clone(item.ContentType),
		IsPolicyRecommendation: &policy,
		PolicyTheme:            clone(item.PolicyTheme),
		Content:                clone(item.Content),
		Excerpt:                clone(item.Excerpt),
		Tags:                   StringList(list(item.Tags)),
		Featured:               &featured,
		CategoryPath:           clone(item.CategoryPath),
	}
	if item.Author != nil {
		if item.Author.Name != "" {
			row.AuthorName = Str(item.Author.Name)
		}
		row.AuthorCredentials = StringList(list(item.Author.Credentials))
		row.AuthorLinkedIn = clone(item.Author.LinkedIn)
		row.AuthorEmail = clone(item.Author.Email)
	}
	return row
}

// FallbackSlug is the placeholder used when neither a slug nor a sluggable
// title is available.
func (m Mapper) FallbackSlug() string {
	return fmt.Sprintf("content-%d", m.now().UnixMilli())
}

func (m Mapper) slugFor(item Item) string {
	if item.Slug != "" {
		return item.Slug
	}
	if item.Title != nil {
		if slug := Slugify(*item.Title); slug != "" {
			return slug
		}
	}
	return m.FallbackSlug()
}

func (m Mapper) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m Mapper) newID() string {
	if m.NewID == nil {
		return uuid.NewString()
	}
	return m.NewID()
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// nonEmpty treats "" like NULL.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return clone(s)
}

func list(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
