package app

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"folio/site/internal/content"
	"folio/site/internal/logger"
)

//go:embed templates
var templateFS embed.FS

const siteName = "Law & Policy"

// loadPages parses every page together with the shared layout so each page
// can define its own "content" block.
func loadPages(funcs template.FuncMap) (map[string]*template.Template, error) {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html",
			"templates/partials.html",
			name,
		)
		if err != nil {
			return nil, err
		}
		pages[strings.TrimSuffix(path.Base(name), ".html")] = tmpl
	}
	return pages, nil
}

func (s *HTTPServer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"deref":       content.Deref,
		"join":        strings.Join,
		"lower":       strings.ToLower,
		"date":        displayDate,
		"section":     content.SectionFor,
		"categoryURL": categoryURL,
		"markdown": func(source *string) template.HTML {
			return s.service.markdown.HTML(content.Deref(source))
		},
		"shareURL": shareURL,
		"reactionLabel": func(kind string) string {
			switch kind {
			case ReactionLike:
				return "Like"
			case ReactionHeart:
				return "Love"
			case ReactionInsightful:
				return "Insightful"
			}
			return kind
		},
	}
}

type siteData struct {
	Name     string
	URL      string
	Author   content.Profile
	Admin    bool
	Year     int
	LawAreas []content.LawArea
}

// page renders a full HTML page inside the layout.
func (s *HTTPServer) page(c *gin.Context, status int, name string, data gin.H) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.log.Error("Unknown page template", logger.String("page", name))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Site"] = siteData{
		Name:     siteName,
		URL:      s.service.cfg.SiteURL,
		Author:   s.service.Author(c.Request.Context()),
		Admin:    s.isAdmin(c),
		Year:     time.Now().Year(),
		LawAreas: content.LawAreas,
	}
	c.Render(status, render.HTML{Template: tmpl, Name: "layout", Data: data})
}

// errorPage renders err with the status mapError assigns to it.
func (s *HTTPServer) errorPage(c *gin.Context, err error) {
	status, code, message, _ := mapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	s.page(c, status, "error", gin.H{"Title": http.StatusText(status), "Status": status, "Code": code, "Message": message})
	c.Abort()
}

func displayDate(value *string) string {
	if value == nil {
		return ""
	}
	if t, ok := content.ParseDate(*value); ok {
		return t.Format("January 2, 2006")
	}
	return *value
}

// categoryURL links a law area name to its category page, or "" when the
// area is not one of the browsable categories.
func categoryURL(lawArea *string) string {
	if lawArea == nil {
		return ""
	}
	for _, area := range content.LawAreas {
		if strings.EqualFold(area.Name, *lawArea) {
			return "/categories/" + area.Slug
		}
	}
	return ""
}

func shareURL(network, pageURL, title string) string {
	switch network {
	case "twitter":
		return "https://twitter.com/intent/tweet?url=" + url.QueryEscape(pageURL) + "&text=" + url.QueryEscape(title)
	case "linkedin":
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(pageURL)
	case "email":
		return "mailto:?subject=" + url.PathEscape(title) + "&body=" + url.PathEscape(pageURL)
	}
	return pageURL
}
