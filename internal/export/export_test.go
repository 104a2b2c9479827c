package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/site/internal/content"
	"folio/site/internal/markdown"
)

type fakePDF struct {
	html string
	err  error
}

func (f *fakePDF) PDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7"), nil
}

func sampleItem() content.Item {
	return content.Item{
		ID:           "1",
		Slug:         "copyright-and-ai",
		Title:        content.Str("Copyright & AI"),
		Subtitle:     content.Str("A primer"),
		Author:       &content.Author{Name: "Jane Doe", Credentials: []string{"LL.M.", "PhD"}},
		CategoryPath: content.Str("IP Law → Article"),
		Content:      content.Str("## Background\n\nText with **bold**."),
		Tags:         []string{"ip", "ai"},
	}
}

func TestRenderHTMLEscapesAndIncludesBody(t *testing.T) {
	svc := NewService(&fakePDF{}, markdown.New(false), "https://example.com")

	html, err := RenderHTML(svc.Document(sampleItem(), "Default"))

	require.NoError(t, err)
	assert.Contains(t, html, "<title>Copyright &amp; AI</title>")
	assert.Contains(t, html, `<h2 id="background">Background</h2>`)
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "LL.M., PhD")
	assert.Contains(t, html, "https://example.com/content/copyright-and-ai")
	assert.Contains(t, html, "Tags: ip, ai")
}

func TestDocumentDefaults(t *testing.T) {
	svc := NewService(&fakePDF{}, markdown.New(false), "")

	doc := svc.Document(content.Item{Slug: "x"}, "Default Author")

	assert.Equal(t, "Untitled", doc.Title)
	assert.Equal(t, "Default Author", doc.Author)
	assert.Empty(t, doc.SourceURL)
}

func TestPDF(t *testing.T) {
	renderer := &fakePDF{}
	svc := NewService(renderer, markdown.New(false), "")

	result, err := svc.PDF(context.Background(), sampleItem(), "Default")

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.MimeType)
	assert.Equal(t, "copyright-and-ai.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"))
	assert.Contains(t, renderer.html, "Copyright &amp; AI")
}

func TestPDFPropagatesMissingChrome(t *testing.T) {
	svc := NewService(&fakePDF{err: ErrPDFDependencyMissing}, markdown.New(false), "")

	_, err := svc.PDF(context.Background(), sampleItem(), "Default")

	assert.True(t, errors.Is(err, ErrPDFDependencyMissing))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "slug.pdf", Filename(content.Item{Slug: "slug"}))
	assert.Equal(t, "hello-world.pdf", Filename(content.Item{Title: content.Str("Hello World")}))
	assert.Equal(t, "article.pdf", Filename(content.Item{}))
}

func TestFilenameIsAlwaysASlug(t *testing.T) {
	assert.Equal(t, "badslug-x1.pdf", Filename(content.Item{Slug: `bad"slug; x=1`}))
	assert.Equal(t, "ete-uber.pdf", Filename(content.Item{Slug: "été-über"}))
	assert.Equal(t, "fallback.pdf", Filename(content.Item{Slug: `"";`, Title: content.Str("Fallback")}))

	long := Filename(content.Item{Slug: strings.Repeat("a", 79) + "-bbb"})
	assert.Equal(t, strings.Repeat("a", 79)+".pdf", long)
}
