package app

import (
	"context"
	"errors"

	"folio/site/internal/auth"
	"folio/site/internal/config"
	"folio/site/internal/content"
	"folio/site/internal/export"
	"folio/site/internal/logger"
	"folio/site/internal/markdown"
	"folio/site/internal/metrics"
	"folio/site/internal/revisions"
	"folio/site/internal/search"
	"folio/site/internal/session"
	"folio/site/internal/store"
)

type dataStore interface {
	ListContent(context.Context) ([]content.Row, error)
	GetContent(context.Context, string) (content.Row, error)
	GetContentBySlug(context.Context, string) (content.Row, error)
	ContentIDBySlug(context.Context, string) (string, error)
	InsertContent(context.Context, content.Row) (content.Row, error)
	UpdateContent(context.Context, content.Row) (content.Row, error)
	DeleteContent(context.Context, string) error
	DeleteAllContent(context.Context) (int64, error)
	GetAuthor(context.Context) (store.Author, error)
	UpsertAuthor(context.Context, store.Author) (store.Author, error)
	ListApprovedComments(context.Context, string) ([]store.Comment, error)
	ListRecentComments(context.Context, int) ([]store.Comment, error)
	InsertComment(context.Context, store.Comment) (store.Comment, error)
	DeleteComment(context.Context, string) error
	InsertReaction(context.Context, store.Reaction) (store.Reaction, error)
	CountReactions(context.Context, string) ([]store.ReactionCount, error)
	Ping(context.Context) error
}

type revisionArchive interface {
	Record(content.Item, string, string) (revisions.Revision, error)
	RecordDeletion(string, string) (revisions.Revision, error)
	History(string, int) ([]revisions.Revision, error)
	At(string, string) (content.Item, error)
}

// Deps wires the service. Store, SearchBackend and Revisions are optional;
// leave them nil (not a typed nil pointer) when the backing service is not
// configured.
type Deps struct {
	Config        config.Config
	Store         dataStore
	Sessions      session.Store
	SearchBackend search.Backend
	Revisions     revisionArchive
	PDF           export.PDFRenderer
	Metrics       *metrics.Metrics
	Logger        logger.Logger
}

type Service struct {
	cfg       config.Config
	store     dataStore
	mapper    content.Mapper
	sessions  session.Store
	tokens    *auth.Manager
	password  auth.Password
	search    *search.Service
	revisions revisionArchive
	markdown  *markdown.Renderer
	pdf       export.PDFRenderer
	export    *export.Service
	metrics   *metrics.Metrics
	log       logger.Logger
}

func New(deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	pdf := deps.PDF
	if pdf == nil {
		pdf = export.Chrome{}
	}
	md := markdown.New(false)

	s := &Service{
		cfg:       deps.Config,
		store:     deps.Store,
		mapper:    content.NewMapper(deps.Config.DefaultAuthor.Name),
		sessions:  sessions,
		tokens:    auth.NewManager(deps.Config.SessionSecret, deps.Config.SessionTTL),
		password:  auth.NewPassword(deps.Config.AdminPassword, deps.Config.AdminPasswordHash),
		revisions: deps.Revisions,
		markdown:  md,
		pdf:       pdf,
		metrics:   deps.Metrics,
		log:       log,
	}
	s.search = search.NewService(deps.SearchBackend, s.FetchAll, log)
	s.export = export.NewService(pdf, md, deps.Config.SiteURL)
	return s
}

func (s *Service) Config() config.Config {
	return s.cfg
}

func (s *Service) configured() bool {
	return s.store != nil
}

// Ping checks the database. It reports store.ErrNotConfigured when no
// database is wired.
func (s *Service) Ping(ctx context.Context) error {
	if !s.configured() {
		return store.ErrNotConfigured
	}
	return s.store.Ping(ctx)
}

// SearchHealthy reports whether the external index is serving queries.
func (s *Service) SearchHealthy() bool {
	return s.search.Healthy()
}

// PDFAvailable reports whether the PDF renderer can run on this host.
// Renderers that cannot tell are assumed available.
func (s *Service) PDFAvailable() bool {
	if checker, ok := s.pdf.(interface{ Available() bool }); ok {
		return checker.Available()
	}
	return true
}

// Wait blocks until background index writes have finished.
func (s *Service) Wait() {
	s.search.Wait()
}

func (s *Service) recordWrite(entity, operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			outcome = domainErr.Code
		}
	}
	s.metrics.Write(entity, operation, outcome)
}
