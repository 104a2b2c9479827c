package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapper() Mapper {
	return Mapper{
		DefaultAuthorName: "Default Author",
		Now:               func() time.Time { return time.UnixMilli(1700000000123) },
		NewID:             func() string { return "generated-id" },
	}
}

func fullItem() Item {
	return Item{
		ID:       "item-1",
		Title:    Str("Title"),
		Subtitle: Str("Subtitle"),
		Slug:     "title",
		Author: &Author{
			Name:        "Jane Doe",
			Credentials: []string{"LL.M.", "PhD"},
			LinkedIn:    Str("https://linkedin.com/in/jane"),
			Email:       Str("jane@example.com"),
		},
		PublishedDate:          Str("2024-05-01"),
		LawArea:                Str("IP Law"),
		Jurisdiction:           Str("Domestic"),
		ContentType:            Str("Article"),
		IsPolicyRecommendation: true,
		PolicyTheme:            Str("Digital rights"),
		Content:                Str("# Heading\n\nBody"),
		Excerpt:                Str("Short excerpt"),
		Tags:                   []string{"copyright", "ai"},
		Featured:               true,
		CategoryPath:           Str("IP Law → Domestic → Article"),
	}
}

func TestRoundTripPreservesPopulatedItem(t *testing.T) {
	m := testMapper()
	item := fullItem()

	assert.Equal(t, item, m.ToDomain(m.ToRow(item, "")))
}

func TestToDomainNullHandling(t *testing.T) {
	m := testMapper()
	empty := ""
	row := Row{ID: "id", Slug: "slug", Title: &empty, PublishedDate: &empty}

	item := m.ToDomain(row)

	assert.Nil(t, item.Title, "empty title maps to absent")
	assert.Nil(t, item.PublishedDate)
	assert.Nil(t, item.Author, "no author_name means no author")
	assert.Nil(t, item.LawArea)
	assert.NotNil(t, item.Tags)
	assert.Empty(t, item.Tags)
	assert.False(t, item.Featured)
	assert.False(t, item.IsPolicyRecommendation)
}

func TestToDomainAuthorCredentialsDefaultToEmpty(t *testing.T) {
	m := testMapper()
	item := m.ToDomain(Row{ID: "id", Slug: "s", AuthorName: Str("Someone")})

	require.NotNil(t, item.Author)
	assert.Equal(t, "Someone", item.Author.Name)
	assert.NotNil(t, item.Author.Credentials)
	assert.Empty(t, item.Author.Credentials)
}

func TestToRowDefaults(t *testing.T) {
	m := testMapper()

	row := m.ToRow(Item{}, "")

	assert.Equal(t, "generated-id", row.ID)
	assert.Equal(t, "content-1700000000123", row.Slug)
	require.NotNil(t, row.AuthorName)
	assert.Equal(t, "Default Author", *row.AuthorName)
	assert.NotNil(t, row.Tags)
	assert.NotNil(t, row.AuthorCredentials)
	assert.Nil(t, row.Title)
	assert.Nil(t, row.AuthorEmail)
	assert.Nil(t, row.PolicyTheme)
	require.NotNil(t, row.Featured)
	assert.False(t, *row.Featured)
}

func TestToRowIDAndSlugPrecedence(t *testing.T) {
	m := testMapper()

	row := m.ToRow(Item{ID: "own", Title: Str("My First Post")}, "override")
	assert.Equal(t, "override", row.ID)
	assert.Equal(t, "my-first-post", row.Slug)

	row = m.ToRow(Item{ID: "own", Slug: "explicit", Title: Str("Ignored")}, "")
	assert.Equal(t, "own", row.ID)
	assert.Equal(t, "explicit", row.Slug)

	row = m.ToRow(Item{Title: Str("???")}, "")
	assert.Equal(t, "content-1700000000123", row.Slug)
}

func TestToRowAuthorWithoutNameGetsDefault(t *testing.T) {
	m := testMapper()

	row := m.ToRow(Item{Author: &Author{Email: Str("x@example.com")}}, "")

	assert.Equal(t, "Default Author", *row.AuthorName)
	assert.Equal(t, "x@example.com", *row.AuthorEmail)
}

func TestStringListScanAndValue(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, StringList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"x"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x"]`, v)
}
