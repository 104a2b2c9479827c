package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/site/internal/content"
	"folio/site/internal/validation"
)

func TestContentFormPayload(t *testing.T) {
	form := contentForm{
		Title:             "Merger Control",
		Tags:              "competition, , merger ",
		LawArea:           "M&A",
		Jurisdiction:      "India",
		Featured:          true,
		AuthorName:        "Guest Writer",
		AuthorCredentials: "Advocate\n\nPhD",
	}
	payload := form.payload()

	assert.Equal(t, "Merger Control", payload["title"])
	assert.NotContains(t, payload, "subtitle")
	assert.Equal(t, []any{"competition", "merger"}, payload["tags"])
	assert.Equal(t, "M&A → India", payload["categoryPath"])

	parsed, err := validation.Validate(payload)
	require.NoError(t, err)
	require.NotNil(t, parsed.Item.Author)
	assert.Equal(t, []string{"Advocate", "PhD"}, parsed.Item.Author.Credentials)
	assert.True(t, parsed.Item.Featured)
	assert.Nil(t, parsed.Item.Subtitle)
}

func TestContentFormRoundTrip(t *testing.T) {
	item := content.Item{
		Slug:   "a",
		Title:  content.Str("A"),
		Tags:   []string{"x", "y"},
		Author: &content.Author{Name: "N", Credentials: []string{"c1", "c2"}},
	}
	form := formFromItem(item)
	assert.Equal(t, "x, y", form.Tags)
	assert.Equal(t, "c1\nc2", form.AuthorCredentials)
	assert.Equal(t, []any{"x", "y"}, form.payload()["tags"])
}

func TestParseLinks(t *testing.T) {
	links := parseLinks("Blog | https://blog.test\n\nhttps://bare.test\n")
	assert.Equal(t, []content.Link{
		{Label: "Blog", URL: "https://blog.test"},
		{Label: "", URL: "https://bare.test"},
	}, links)
	assert.Equal(t, []content.Link{}, parseLinks(""))
}

func TestBuildSitemap(t *testing.T) {
	items := []content.Item{
		{Slug: "dated", PublishedDate: content.Str("2025-02-03T10:00:00Z")},
		{Slug: "undated", PublishedDate: content.Str("someday")},
	}
	set := buildSitemap("https://folio.test", items)

	require.Len(t, set.URLs, len(staticPaths)+2)
	dated := set.URLs[len(staticPaths)]
	assert.Equal(t, "https://folio.test/content/dated", dated.Loc)
	assert.Equal(t, "2025-02-03", dated.LastMod)
	assert.Empty(t, set.URLs[len(staticPaths)+1].LastMod)
}
