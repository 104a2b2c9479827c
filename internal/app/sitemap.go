package app

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"

	"folio/site/internal/content"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

var staticPaths = []string{"/", "/about", "/contact", "/categories", "/policy", "/general/articles", "/general/blogs", "/general/papers"}

// buildSitemap lists the static pages followed by one entry per item.
func buildSitemap(siteURL string, items []content.Item) urlSet {
	set := urlSet{Xmlns: sitemapNS}
	for _, p := range staticPaths {
		set.URLs = append(set.URLs, sitemapURL{Loc: siteURL + p})
	}
	for _, item := range items {
		entry := sitemapURL{Loc: siteURL + "/content/" + item.Slug}
		if item.PublishedDate != nil {
			if t, ok := content.ParseDate(*item.PublishedDate); ok {
				entry.LastMod = t.Format("2006-01-02")
			}
		}
		set.URLs = append(set.URLs, entry)
	}
	return set
}

func (s *HTTPServer) sitemap(c *gin.Context) {
	set := buildSitemap(s.service.cfg.SiteURL, s.service.FetchAll(c.Request.Context()))
	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "Server error")
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
