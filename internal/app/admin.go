package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"folio/site/internal/content"
)

const moderationLimit = 100

// contentForm mirrors the admin editor's fields as submitted strings.
type contentForm struct {
	Title                  string
	Subtitle               string
	Slug                   string
	Excerpt                string
	Body                   string
	PublishedDate          string
	LawArea                string
	Jurisdiction           string
	ContentType            string
	PolicyTheme            string
	Tags                   string
	IsPolicyRecommendation bool
	Featured               bool
	AuthorName             string
	AuthorCredentials      string
	AuthorLinkedIn         string
	AuthorEmail            string
}

func formFromItem(item content.Item) contentForm {
	form := contentForm{
		Title:                  content.Deref(item.Title),
		Subtitle:               content.Deref(item.Subtitle),
		Slug:                   item.Slug,
		Excerpt:                content.Deref(item.Excerpt),
		Body:                   content.Deref(item.Content),
		PublishedDate:          content.Deref(item.PublishedDate),
		LawArea:                content.Deref(item.LawArea),
		Jurisdiction:           content.Deref(item.Jurisdiction),
		ContentType:            content.Deref(item.ContentType),
		PolicyTheme:            content.Deref(item.PolicyTheme),
		Tags:                   strings.Join(item.Tags, ", "),
		IsPolicyRecommendation: item.IsPolicyRecommendation,
		Featured:               item.Featured,
	}
	if item.Author != nil {
		form.AuthorName = item.Author.Name
		form.AuthorCredentials = strings.Join(item.Author.Credentials, "\n")
		form.AuthorLinkedIn = content.Deref(item.Author.LinkedIn)
		form.AuthorEmail = content.Deref(item.Author.Email)
	}
	return form
}

func formFromRequest(c *gin.Context) contentForm {
	field := func(name string) string { return strings.TrimSpace(c.PostForm(name)) }
	return contentForm{
		Title:                  field("title"),
		Subtitle:               field("subtitle"),
		Slug:                   field("slug"),
		Excerpt:                field("excerpt"),
		Body:                   c.PostForm("content"),
		PublishedDate:          field("publishedDate"),
		LawArea:                field("lawArea"),
		Jurisdiction:           field("jurisdiction"),
		ContentType:            field("contentType"),
		PolicyTheme:            field("policyTheme"),
		Tags:                   field("tags"),
		IsPolicyRecommendation: c.PostForm("isPolicyRecommendation") != "",
		Featured:               c.PostForm("featured") != "",
		AuthorName:             field("authorName"),
		AuthorCredentials:      c.PostForm("authorCredentials"),
		AuthorLinkedIn:         field("authorLinkedin"),
		AuthorEmail:            field("authorEmail"),
	}
}

// payload converts the form to the JSON-shaped payload the write path
// validates. Blank fields are left out so they read back as absent.
func (f contentForm) payload() map[string]any {
	payload := map[string]any{
		"tags":                   splitList(f.Tags, ","),
		"isPolicyRecommendation": f.IsPolicyRecommendation,
		"featured":               f.Featured,
	}
	set := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}
	set("title", f.Title)
	set("subtitle", f.Subtitle)
	set("slug", f.Slug)
	set("excerpt", f.Excerpt)
	set("content", strings.TrimSpace(f.Body))
	set("publishedDate", f.PublishedDate)
	set("lawArea", f.LawArea)
	set("jurisdiction", f.Jurisdiction)
	set("contentType", f.ContentType)
	set("policyTheme", f.PolicyTheme)
	set("categoryPath", content.CategoryPath(f.LawArea, f.Jurisdiction, f.ContentType))

	if f.AuthorName != "" {
		author := map[string]any{
			"name":        f.AuthorName,
			"credentials": splitList(f.AuthorCredentials, "\n"),
		}
		if f.AuthorLinkedIn != "" {
			author["linkedin"] = f.AuthorLinkedIn
		}
		if f.AuthorEmail != "" {
			author["email"] = f.AuthorEmail
		}
		payload["author"] = author
	}
	return payload
}

// splitList splits on sep, trimming entries and dropping blanks. The
// result is never nil.
func splitList(value, sep string) []any {
	out := []any{}
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *HTTPServer) adminLoginPage(c *gin.Context) {
	if s.isAdmin(c) {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	s.page(c, http.StatusOK, "admin_login", gin.H{"Title": "Admin Login"})
}

func (s *HTTPServer) adminLogin(c *gin.Context) {
	session, err := s.service.Login(c.Request.Context(), c.PostForm("password"))
	if err != nil {
		status, _, message, _ := mapError(err)
		s.page(c, status, "admin_login", gin.H{"Title": "Admin Login", "Error": message})
		return
	}
	s.setSessionCookie(c, session)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (s *HTTPServer) adminLogout(c *gin.Context) {
	s.service.Logout(c.Request.Context(), s.sessionToken(c))
	s.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

type dashboardStats struct {
	Total    int
	Policy   int
	Featured int
	ByType   map[string]int
}

func (s *HTTPServer) adminDashboard(c *gin.Context) {
	items := s.service.FetchAll(c.Request.Context())
	query := strings.TrimSpace(c.Query("q"))
	kind := strings.TrimSpace(c.DefaultQuery("kind", "all"))

	stats := dashboardStats{Total: len(items), ByType: map[string]int{}}
	for _, item := range items {
		if item.IsPolicyRecommendation {
			stats.Policy++
		}
		if item.Featured {
			stats.Featured++
		}
		if item.ContentType != nil {
			stats.ByType[*item.ContentType]++
		}
	}

	s.page(c, http.StatusOK, "admin_dashboard", gin.H{
		"Title":  "Dashboard",
		"Items":  content.AdminFilter(items, query, kind),
		"Stats":  stats,
		"Query":  query,
		"Kind":   kind,
		"Notice": c.Query("notice"),
	})
}

func (s *HTTPServer) editorData(title, action string, form contentForm) gin.H {
	return gin.H{
		"Title":         title,
		"Action":        action,
		"Form":          form,
		"LawAreas":      content.LawAreas,
		"Jurisdictions": content.JurisdictionSuggestions,
		"ContentTypes":  content.ContentTypeSuggestions,
	}
}

func (s *HTTPServer) adminNewContent(c *gin.Context) {
	s.page(c, http.StatusOK, "admin_editor", s.editorData("New content", "/admin/content/new", contentForm{}))
}

func (s *HTTPServer) adminCreateContent(c *gin.Context) {
	form := formFromRequest(c)
	item, err := s.service.CreateContent(c.Request.Context(), form.payload())
	if err != nil {
		s.editorError(c, s.editorData("New content", "/admin/content/new", form), err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=created:"+item.Slug)
}

func (s *HTTPServer) adminEditContent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	item, err := s.service.GetContent(ctx, id)
	if err != nil {
		s.errorPage(c, err)
		return
	}
	data := s.editorData("Edit content", "/admin/content/"+id+"/edit", formFromItem(item))
	data["Item"] = item
	if history, err := s.service.Revisions(ctx, id, defaultRevisionLimit); err == nil {
		data["Revisions"] = history
	}
	s.page(c, http.StatusOK, "admin_editor", data)
}

func (s *HTTPServer) adminUpdateContent(c *gin.Context) {
	id := c.Param("id")
	form := formFromRequest(c)
	item, err := s.service.UpdateContent(c.Request.Context(), id, form.payload())
	if err != nil {
		s.editorError(c, s.editorData("Edit content", "/admin/content/"+id+"/edit", form), err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=updated:"+item.Slug)
}

func (s *HTTPServer) editorError(c *gin.Context, data gin.H, err error) {
	status, _, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	data["Error"] = message
	data["Issues"] = issuesOf(details)
	s.page(c, status, "admin_editor", data)
}

func (s *HTTPServer) adminDeleteContent(c *gin.Context) {
	if err := s.service.DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		s.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=deleted")
}

func (s *HTTPServer) adminDeleteAllContent(c *gin.Context) {
	if c.PostForm("confirm") != "DELETE" {
		c.Redirect(http.StatusSeeOther, "/admin?notice=delete-all-unconfirmed")
		return
	}
	if _, err := s.service.DeleteAllContent(c.Request.Context()); err != nil {
		s.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin?notice=deleted-all")
}

func (s *HTTPServer) adminAuthorPage(c *gin.Context) {
	s.page(c, http.StatusOK, "admin_author", gin.H{
		"Title":   "Author profile",
		"Profile": s.service.Author(c.Request.Context()),
		"Saved":   c.Query("saved") != "",
	})
}

func (s *HTTPServer) adminUpdateAuthor(c *gin.Context) {
	profile := content.Profile{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Credentials: stringsOf(splitList(c.PostForm("credentials"), "\n")),
		LinkedIn:    strings.TrimSpace(c.PostForm("linkedin")),
		Email:       strings.TrimSpace(c.PostForm("email")),
		OtherLinks:  parseLinks(c.PostForm("otherLinks")),
	}
	if _, err := s.service.UpdateAuthor(c.Request.Context(), profile); err != nil {
		status, _, message, details := mapError(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		s.page(c, status, "admin_author", gin.H{
			"Title":   "Author profile",
			"Profile": profile,
			"Error":   message,
			"Issues":  issuesOf(details),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/author?saved=1")
}

// parseLinks reads one "Label | URL" pair per line.
func parseLinks(value string) []content.Link {
	links := []content.Link{}
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		label, url, found := strings.Cut(line, "|")
		if !found {
			url, label = label, ""
		}
		links = append(links, content.Link{Label: strings.TrimSpace(label), URL: strings.TrimSpace(url)})
	}
	return links
}

func stringsOf(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.(string))
	}
	return out
}

func (s *HTTPServer) adminCommentsPage(c *gin.Context) {
	s.page(c, http.StatusOK, "admin_comments", gin.H{
		"Title":    "Comments",
		"Comments": s.service.RecentComments(c.Request.Context(), moderationLimit),
		"Notice":   c.Query("notice"),
	})
}

func (s *HTTPServer) adminDeleteComment(c *gin.Context) {
	if err := s.service.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		s.errorPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/comments?notice=deleted")
}
