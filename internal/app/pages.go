package app

import (
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"folio/site/internal/content"
)

const (
	latestOnHome = 6
	relatedCount = 3
)

func (s *HTTPServer) homePage(c *gin.Context) {
	items := s.service.FetchAll(c.Request.Context())
	s.page(c, http.StatusOK, "home", gin.H{
		"Featured": content.Featured(items),
		"Latest":   content.Latest(items, latestOnHome),
	})
}

func (s *HTTPServer) contentPage(c *gin.Context) {
	items := s.service.FetchAll(c.Request.Context())
	item, ok := content.FindBySlug(items, c.Param("slug"))
	if !ok {
		s.errorPage(c, errNotFound("Content"))
		return
	}
	s.page(c, http.StatusOK, "content", s.contentData(c, items, item))
}

// contentData assembles the detail page. Comment and reaction failures read
// as empty.
func (s *HTTPServer) contentData(c *gin.Context, items []content.Item, item content.Item) gin.H {
	ctx := c.Request.Context()
	comments, _ := s.service.Comments(ctx, item.ID)
	counts, _ := s.service.ReactionCounts(ctx, item.ID)
	return gin.H{
		"Title":         content.Deref(item.Title),
		"Item":          item,
		"Related":       content.Related(items, item, relatedCount),
		"Comments":      comments,
		"Reactions":     counts,
		"ReactionTypes": ReactionTypes,
		"PageURL":       s.service.cfg.SiteURL + "/content/" + item.Slug,
		"Notice":        c.Query("notice"),
	}
}

func (s *HTTPServer) contentPDF(c *gin.Context) {
	result, err := s.service.PDF(c.Request.Context(), c.Param("slug"))
	if err != nil {
		s.errorPage(c, err)
		return
	}
	c.Header("Content-Disposition", contentDisposition(result.Filename))
	c.Data(http.StatusOK, result.MimeType, result.Data)
}

func (s *HTTPServer) postComment(c *gin.Context) {
	ctx := c.Request.Context()
	items := s.service.FetchAll(ctx)
	item, ok := content.FindBySlug(items, c.Param("slug"))
	if !ok {
		s.errorPage(c, errNotFound("Content"))
		return
	}
	in := CommentInput{
		ContentID:   item.ID,
		AuthorName:  c.PostForm("authorName"),
		AuthorEmail: c.PostForm("authorEmail"),
		Comment:     c.PostForm("comment"),
	}
	if _, err := s.service.AddComment(ctx, in); err != nil {
		status, _, message, details := mapError(err)
		data := s.contentData(c, items, item)
		data["CommentForm"] = in
		data["CommentError"] = message
		data["CommentIssues"] = issuesOf(details)
		s.page(c, status, "content", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/content/"+item.Slug+"#comments")
}

func (s *HTTPServer) postReaction(c *gin.Context) {
	ctx := c.Request.Context()
	item, ok := content.FindBySlug(s.service.FetchAll(ctx), c.Param("slug"))
	if !ok {
		s.errorPage(c, errNotFound("Content"))
		return
	}
	in := ReactionInput{ContentID: item.ID, ReactionType: c.PostForm("reactionType")}
	_, err := s.service.AddReaction(ctx, in, ReactionIP(c.Request.Header))
	target := "/content/" + item.Slug
	switch {
	case err == nil:
	case isDomainCode(err, "DUPLICATE_REACTION"):
		target += "?notice=duplicate-reaction"
	default:
		status, _, _, _ := mapError(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		target += "?notice=reaction-failed"
	}
	c.Redirect(http.StatusSeeOther, target+"#reactions")
}

func (s *HTTPServer) categoriesPage(c *gin.Context) {
	items := s.service.FetchAll(c.Request.Context())
	counts := make(map[string]int, len(content.LawAreas))
	for _, area := range content.LawAreas {
		name := area.Name
		counts[area.Slug] = len(content.ByCategory(items, &name, nil, nil))
	}
	s.page(c, http.StatusOK, "categories", gin.H{
		"Title":  "Categories",
		"Areas":  content.LawAreas,
		"Counts": counts,
	})
}

func (s *HTTPServer) categoryPage(c *gin.Context) {
	area, ok := content.LawAreaBySlug(c.Param("slug"))
	if !ok {
		s.errorPage(c, errNotFound("Category"))
		return
	}
	jurisdiction := strings.TrimSpace(c.Query("jurisdiction"))
	contentType := strings.TrimSpace(c.Query("type"))

	items := s.service.FetchAll(c.Request.Context())
	name := area.Name
	s.page(c, http.StatusOK, "category", gin.H{
		"Title":         area.Name,
		"Area":          area,
		"Items":         content.ByCategory(items, &name, optional(jurisdiction), optional(contentType)),
		"Jurisdiction":  jurisdiction,
		"ContentType":   contentType,
		"Jurisdictions": content.JurisdictionSuggestions,
		"ContentTypes":  content.ContentTypeSuggestions,
	})
}

func (s *HTTPServer) generalPage(c *gin.Context) {
	section := c.Param("type")
	contentType, ok := content.GeneralSection(section)
	if !ok {
		s.errorPage(c, errNotFound("Section"))
		return
	}
	items := s.service.FetchAll(c.Request.Context())
	if section == "policy" {
		s.renderPolicy(c, items)
		return
	}
	s.page(c, http.StatusOK, "listing", gin.H{
		"Title": contentType + "s",
		"Items": content.ByType(items, contentType),
	})
}

func (s *HTTPServer) policyPage(c *gin.Context) {
	s.renderPolicy(c, s.service.FetchAll(c.Request.Context()))
}

func (s *HTTPServer) renderPolicy(c *gin.Context, items []content.Item) {
	s.page(c, http.StatusOK, "listing", gin.H{
		"Title": "Policy Recommendations",
		"Items": content.PolicyRecommendations(items),
	})
}

func (s *HTTPServer) searchPage(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	data := gin.H{"Title": "Search", "Query": query}
	if query != "" {
		data["Response"] = s.service.Search(c.Request.Context(), query, 50)
	}
	s.page(c, http.StatusOK, "search", data)
}

func (s *HTTPServer) aboutPage(c *gin.Context) {
	s.page(c, http.StatusOK, "about", gin.H{"Title": "About"})
}

func (s *HTTPServer) contactPage(c *gin.Context) {
	s.page(c, http.StatusOK, "contact", gin.H{"Title": "Contact"})
}

func contentDisposition(filename string) string {
	if value := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); value != "" {
		return value
	}
	return "attachment"
}
