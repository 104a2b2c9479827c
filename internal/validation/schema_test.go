package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsEmptyPayload(t *testing.T) {
	payload, err := Validate(map[string]any{})
	require.NoError(t, err)

	assert.NotNil(t, payload.Item.Tags)
	assert.Empty(t, payload.Item.Tags)
	assert.Nil(t, payload.Item.Title)
	assert.Nil(t, payload.Item.Author)
	assert.Empty(t, payload.Extra)
}

func TestValidateDecodesKnownFields(t *testing.T) {
	payload, err := Validate(map[string]any{
		"title":                  "Hello",
		"slug":                   "hello",
		"publishedDate":          "2024-01-01",
		"isPolicyRecommendation": true,
		"tags":                   []string{"a", "b"},
		"author":                 map[string]any{"name": "Jane"},
	})
	require.NoError(t, err)

	item := payload.Item
	require.NotNil(t, item.Title)
	assert.Equal(t, "Hello", *item.Title)
	assert.Equal(t, "hello", item.Slug)
	assert.True(t, item.IsPolicyRecommendation)
	assert.Equal(t, []string{"a", "b"}, item.Tags)
	require.NotNil(t, item.Author)
	assert.Equal(t, "Jane", item.Author.Name)
	assert.NotNil(t, item.Author.Credentials)
	assert.Empty(t, item.Author.Credentials)
}

func TestValidatePassesUnknownFieldsThrough(t *testing.T) {
	payload, err := Validate(map[string]any{
		"title":   "Hello",
		"foo":     "bar",
		"ranking": float64(3),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"foo": "bar", "ranking": float64(3)}, payload.Extra)
}

func TestValidateAllowsFreeFormTaxonomy(t *testing.T) {
	payload, err := Validate(map[string]any{
		"jurisdiction": "Galactic",
		"contentType":  "Podcast",
	})
	require.NoError(t, err)
	assert.Equal(t, "Galactic", *payload.Item.Jurisdiction)
	assert.Equal(t, "Podcast", *payload.Item.ContentType)
}

func TestValidateCollectsEveryIssue(t *testing.T) {
	_, err := Validate(map[string]any{
		"title":    42,
		"featured": "yes",
		"tags":     []any{"ok", 7},
		"author":   map[string]any{"credentials": "not a list"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	issues := Issues(err)
	require.NotNil(t, issues)
	assert.Contains(t, issues, "title")
	assert.Contains(t, issues, "featured")
	assert.Contains(t, issues, "tags.1")
	assert.Contains(t, issues, "author.credentials")
	for field, messages := range issues {
		assert.NotEmpty(t, messages, field)
	}
}

func TestValidateRejectsNonObjectAuthor(t *testing.T) {
	_, err := Validate(map[string]any{"author": "Jane"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Issues, "author")
	assert.Contains(t, verr.Error(), "author")
}

func TestFieldPath(t *testing.T) {
	assert.Equal(t, "_root", fieldPath(""))
	assert.Equal(t, "title", fieldPath("/title"))
	assert.Equal(t, "author.credentials.0", fieldPath("/author/credentials/0"))
	assert.Equal(t, "a/b", fieldPath("/a~1b"))
}

func TestIssuesOnForeignError(t *testing.T) {
	assert.Nil(t, Issues(errors.New("boom")))
}
