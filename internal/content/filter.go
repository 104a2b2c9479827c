package content

import (
	"sort"
	"strings"
	"time"
)

// JurisdictionBoth marks an item that belongs to every jurisdiction.
const JurisdictionBoth = "Both"

// FeaturedLimit caps the featured listing.
const FeaturedLimit = 4

// ByCategory filters by law area, jurisdiction and content type; a nil filter
// matches everything. Policy recommendations only ever appear when all three
// filters are nil: any category query excludes them.
func ByCategory(items []Item, lawArea, jurisdiction, contentType *string) []Item {
	unfiltered := lawArea == nil && jurisdiction == nil && contentType == nil
	return filter(items, func(item Item) bool {
		if item.IsPolicyRecommendation {
			return unfiltered
		}
		return matches(lawArea, item.LawArea) &&
			(matches(jurisdiction, item.Jurisdiction) || Deref(item.Jurisdiction) == JurisdictionBoth) &&
			matches(contentType, item.ContentType)
	})
}

// Featured returns up to FeaturedLimit featured items in input order.
func Featured(items []Item) []Item {
	featured := filter(items, func(item Item) bool { return item.Featured })
	if len(featured) > FeaturedLimit {
		featured = featured[:FeaturedLimit]
	}
	return featured
}

// Latest returns the limit most recent items, newest first. Items without a
// usable date sort as the epoch; equal dates keep input order.
func Latest(items []Item, limit int) []Item {
	if limit <= 0 {
		return []Item{}
	}
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return publishedAt(sorted[i]).After(publishedAt(sorted[j]))
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// ByType matches contentType exactly. Unlike ByCategory it does not exclude
// policy recommendations.
func ByType(items []Item, contentType string) []Item {
	return filter(items, func(item Item) bool {
		return item.ContentType != nil && *item.ContentType == contentType
	})
}

// PolicyRecommendations returns the items flagged as policy recommendations.
func PolicyRecommendations(items []Item) []Item {
	return filter(items, func(item Item) bool { return item.IsPolicyRecommendation })
}

// Related returns up to limit other items sharing the law area or the
// jurisdiction of item.
func Related(items []Item, item Item, limit int) []Item {
	related := filter(items, func(other Item) bool {
		if other.ID == item.ID {
			return false
		}
		return sameValue(other.LawArea, item.LawArea) || sameValue(other.Jurisdiction, item.Jurisdiction)
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

// Search is the site search: a case-insensitive substring match over title,
// excerpt, subtitle and tags. An empty query matches nothing.
func Search(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Item{}
	}
	return filter(items, func(item Item) bool {
		return containsFold(item.Title, q) ||
			containsFold(item.Excerpt, q) ||
			containsFold(item.Subtitle, q) ||
			anyTagContains(item.Tags, q)
	})
}

// AdminFilter backs the dashboard list. kind is "all", "policy" or a
// lower-cased content type; query matches title, excerpt, law area or tags.
func AdminFilter(items []Item, query, kind string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	kind = strings.ToLower(strings.TrimSpace(kind))
	return filter(items, func(item Item) bool {
		matchesQuery := q == "" ||
			containsFold(item.Title, q) ||
			containsFold(item.Excerpt, q) ||
			containsFold(item.LawArea, q) ||
			anyTagContains(item.Tags, q)
		matchesKind := kind == "" || kind == "all" ||
			(kind == "policy" && item.IsPolicyRecommendation) ||
			(item.ContentType != nil && strings.ToLower(*item.ContentType) == kind)
		return matchesQuery && matchesKind
	})
}

// FindBySlug returns the item with the given slug.
func FindBySlug(items []Item, slug string) (Item, bool) {
	for _, item := range items {
		if item.Slug == slug {
			return item, true
		}
	}
	return Item{}, false
}

// CategoryPath joins the present parts with " → ".
func CategoryPath(lawArea, jurisdiction, contentType string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{lawArea, jurisdiction, contentType} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " → ")
}

func filter(items []Item, keep func(Item) bool) []Item {
	out := make([]Item, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// matches treats a nil or empty filter as "any".
func matches(want, got *string) bool {
	if want == nil || *want == "" {
		return true
	}
	return got != nil && *got == *want
}

func sameValue(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

func containsFold(s *string, lowerQuery string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), lowerQuery)
}

func anyTagContains(tags []string, lowerQuery string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), lowerQuery) {
			return true
		}
	}
	return false
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func publishedAt(item Item) time.Time {
	if item.PublishedDate == nil {
		return time.Unix(0, 0)
	}
	if t, ok := ParseDate(*item.PublishedDate); ok {
		return t
	}
	return time.Unix(0, 0)
}

// ParseDate accepts the date shapes the admin forms and imports produce.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
