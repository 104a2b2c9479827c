package app

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"folio/site/internal/content"
)

const (
	defaultSearchLimit   = 20
	defaultRevisionLimit = 20
)

func invalidBody() *DomainError {
	return domainError(http.StatusBadRequest, "INVALID_BODY", "invalid JSON body", nil)
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *HTTPServer) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := gin.H{
		"database": gin.H{"status": "ok"},
		"search":   gin.H{"status": "memory"},
		"pdf":      gin.H{"status": "ok"},
	}
	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["database"] = gin.H{"status": "error", "error": err.Error()}
	}
	if s.service.SearchHealthy() {
		checks["search"] = gin.H{"status": "ok"}
	}
	if !s.service.PDFAvailable() {
		checks["pdf"] = gin.H{"status": "unavailable"}
	}

	c.JSON(statusCode, gin.H{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) listContent(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.FetchAll(c.Request.Context()))
}

func (s *HTTPServer) getContent(c *gin.Context) {
	item, err := s.service.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *HTTPServer) createContent(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.fail(c, invalidBody())
		return
	}
	item, err := s.service.CreateContent(c.Request.Context(), payload)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "content": item})
}

func (s *HTTPServer) updateContent(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.fail(c, invalidBody())
		return
	}
	item, err := s.service.UpdateContent(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "content": item})
}

func (s *HTTPServer) deleteContent(c *gin.Context) {
	if err := s.service.DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) deleteAllContent(c *gin.Context) {
	deleted, err := s.service.DeleteAllContent(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

func (s *HTTPServer) contentRevisions(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultRevisionLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	history, err := s.service.Revisions(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revisions": history})
}

func (s *HTTPServer) contentRevision(c *gin.Context) {
	change, err := s.service.RevisionAt(c.Request.Context(), c.Param("id"), c.Param("hash"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

func (s *HTTPServer) getAuthor(c *gin.Context) {
	c.JSON(http.StatusOK, s.service.Author(c.Request.Context()))
}

func (s *HTTPServer) updateAuthor(c *gin.Context) {
	var profile content.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		s.fail(c, invalidBody())
		return
	}
	updated, err := s.service.UpdateAuthor(c.Request.Context(), profile)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "author": updated})
}

func (s *HTTPServer) listComments(c *gin.Context) {
	comments, err := s.service.Comments(c.Request.Context(), c.Query("contentId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (s *HTTPServer) createComment(c *gin.Context) {
	var in CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, invalidBody())
		return
	}
	comment, err := s.service.AddComment(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (s *HTTPServer) deleteComment(c *gin.Context) {
	if err := s.service.DeleteComment(c.Request.Context(), c.Query("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) reactionCounts(c *gin.Context) {
	counts, err := s.service.ReactionCounts(c.Request.Context(), c.Query("contentId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *HTTPServer) createReaction(c *gin.Context) {
	var in ReactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, invalidBody())
		return
	}
	reaction, err := s.service.AddReaction(c.Request.Context(), in, ReactionIP(c.Request.Header))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reaction)
}

func (s *HTTPServer) searchContent(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultSearchLimit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.service.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), limit))
}

func (s *HTTPServer) login(c *gin.Context) {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, invalidBody())
		return
	}
	session, err := s.service.Login(c.Request.Context(), body.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{"success": true, "expiresAt": session.ExpiresAt})
}

func (s *HTTPServer) logout(c *gin.Context) {
	s.service.Logout(c.Request.Context(), s.sessionToken(c))
	s.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) authCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": s.isAdmin(c)})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return 0, errInvalid(key+" must be a non-negative integer", nil)
	}
	return parsed, nil
}
