package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var articleTemplate = template.Must(
	template.New("article.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/article.html"),
)

// RenderHTML renders the print layout for doc.
func RenderHTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := articleTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
