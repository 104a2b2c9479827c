package content

import "strings"

// LawArea is a browsable category. The list below is a presentation-layer
// suggestion set; stored items may carry any law area string.
type LawArea struct {
	ID          string
	Name        string
	Slug        string
	Description string
}

var LawAreas = []LawArea{
	{ID: "1", Name: "IP Law", Slug: "ip-law", Description: "Intellectual Property Law"},
	{ID: "2", Name: "TMT", Slug: "tmt", Description: "Technology, Media & Telecommunications"},
	{ID: "3", Name: "M&A", Slug: "m-a", Description: "Mergers & Acquisitions"},
	{ID: "4", Name: "Labour Law", Slug: "labour-law", Description: "Employment and Labour Relations"},
	{ID: "5", Name: "Environmental Law", Slug: "environmental-law", Description: "Environmental Regulations and Policy"},
}

// Suggested values offered by the admin forms. Not enforced anywhere.
var (
	JurisdictionSuggestions = []string{"International", "Domestic", JurisdictionBoth}
	ContentTypeSuggestions  = []string{"Article", "Blog", "Paper"}
)

// LawAreaBySlug looks up a suggested law area by its URL slug.
func LawAreaBySlug(slug string) (LawArea, bool) {
	for _, area := range LawAreas {
		if area.Slug == slug {
			return area, true
		}
	}
	return LawArea{}, false
}

// GeneralSection maps a /general/{section} segment to a content type.
// "policy" is a valid section without a content type.
func GeneralSection(section string) (contentType string, ok bool) {
	switch section {
	case "articles":
		return "Article", true
	case "blogs":
		return "Blog", true
	case "papers":
		return "Paper", true
	case "policy":
		return "", true
	default:
		return "", false
	}
}

// SectionFor is the inverse of GeneralSection for known content types.
func SectionFor(contentType *string) string {
	if contentType == nil {
		return ""
	}
	switch strings.ToLower(*contentType) {
	case "article":
		return "articles"
	case "blog":
		return "blogs"
	case "paper":
		return "papers"
	default:
		return ""
	}
}
