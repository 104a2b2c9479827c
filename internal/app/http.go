package app

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"folio/site/internal/logger"
	"folio/site/internal/metrics"
)

const (
	adminCookie = "admin_token"

	readTimeout  = 15 * time.Second
	writeTimeout = 90 * time.Second
	idleTimeout  = 120 * time.Second
)

type HTTPServer struct {
	service      *Service
	engine       *gin.Engine
	pages        map[string]*template.Template
	log          logger.Logger
	metrics      *metrics.Metrics
	secureCookie bool
}

func NewHTTPServer(service *Service) (*HTTPServer, error) {
	s := &HTTPServer{
		service:      service,
		log:          service.log,
		metrics:      service.metrics,
		secureCookie: strings.HasPrefix(service.cfg.SiteURL, "https://"),
	}
	pages, err := loadPages(s.templateFuncs())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	s.pages = pages
	s.engine = s.routes()
	return s, nil
}

func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// Server wraps the handler with the site's timeouts.
func (s *HTTPServer) Server(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

func (s *HTTPServer) routes() *gin.Engine {
	router := gin.New()
	router.Use(requestID())
	router.Use(s.recovery())
	router.Use(requestLogger(s.log))
	router.Use(observe(s.metrics))
	router.NoRoute(s.notFound)

	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := router.Group("/api", noStore())
	{
		api.GET("/health", s.health)
		api.HEAD("/health", s.health)
		api.GET("/ready", s.ready)

		api.GET("/content", s.listContent)
		api.GET("/author", s.getAuthor)
		api.GET("/comments", s.listComments)
		api.POST("/comments", s.createComment)
		api.GET("/reactions", s.reactionCounts)
		api.POST("/reactions", s.createReaction)
		api.GET("/search", s.searchContent)

		api.POST("/auth/login", s.login)
		api.POST("/auth/logout", s.logout)
		api.GET("/auth/check", s.authCheck)

		admin := api.Group("", s.requireAdminAPI)
		admin.POST("/content", s.createContent)
		admin.DELETE("/content", s.deleteAllContent)
		admin.GET("/content/:id", s.getContent)
		admin.PUT("/content/:id", s.updateContent)
		admin.DELETE("/content/:id", s.deleteContent)
		admin.GET("/content/:id/revisions", s.contentRevisions)
		admin.GET("/content/:id/revisions/:hash", s.contentRevision)
		admin.PUT("/author", s.updateAuthor)
		admin.DELETE("/comments", s.deleteComment)
	}

	router.GET("/", s.homePage)
	router.GET("/content/:slug", s.contentPage)
	router.GET("/content/:slug/pdf", s.contentPDF)
	router.POST("/content/:slug/comments", s.postComment)
	router.POST("/content/:slug/reactions", s.postReaction)
	router.GET("/categories", s.categoriesPage)
	router.GET("/categories/:slug", s.categoryPage)
	router.GET("/general/:type", s.generalPage)
	router.GET("/policy", s.policyPage)
	router.GET("/search", s.searchPage)
	router.GET("/about", s.aboutPage)
	router.GET("/contact", s.contactPage)
	router.GET("/sitemap.xml", s.sitemap)

	router.GET("/admin/login", s.adminLoginPage)
	router.POST("/admin/login", s.adminLogin)
	router.POST("/admin/logout", s.adminLogout)

	panel := router.Group("/admin", s.requireAdminPage)
	{
		panel.GET("", s.adminDashboard)
		panel.GET("/content/new", s.adminNewContent)
		panel.POST("/content/new", s.adminCreateContent)
		panel.GET("/content/:id/edit", s.adminEditContent)
		panel.POST("/content/:id/edit", s.adminUpdateContent)
		panel.POST("/content/:id/delete", s.adminDeleteContent)
		panel.POST("/content/delete-all", s.adminDeleteAllContent)
		panel.GET("/author", s.adminAuthorPage)
		panel.POST("/author", s.adminUpdateAuthor)
		panel.GET("/comments", s.adminCommentsPage)
		panel.POST("/comments/:id/delete", s.adminDeleteComment)
	}

	return router
}

func writeError(c *gin.Context, status int, code, message string, details any) {
	response := gin.H{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	c.AbortWithStatusJSON(status, response)
}

// fail writes err as a JSON error envelope.
func (s *HTTPServer) fail(c *gin.Context, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	writeError(c, status, code, message, details)
}

func (s *HTTPServer) sessionToken(c *gin.Context) string {
	token, err := c.Cookie(adminCookie)
	if err != nil {
		return ""
	}
	return token
}

func (s *HTTPServer) isAdmin(c *gin.Context) bool {
	return s.service.Authenticated(c.Request.Context(), s.sessionToken(c))
}

func (s *HTTPServer) setSessionCookie(c *gin.Context, session AdminSession) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(adminCookie, session.Token, maxAge, "/", "", s.secureCookie, true)
}

func (s *HTTPServer) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(adminCookie, "", -1, "/", "", s.secureCookie, true)
}

func (s *HTTPServer) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}
	s.errorPage(c, errNotFound("Page"))
}

func isDomainCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
