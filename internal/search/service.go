package search

import (
	"context"
	"sync"

	"folio/site/internal/content"
	"folio/site/internal/logger"
)

const (
	SourceIndex  = "index"
	SourceMemory = "memory"
)

// Backend is an external index. *Meili is the production implementation.
type Backend interface {
	Healthy() bool
	Search(q Query) ([]Result, int, error)
	Index(records []Record) error
	Delete(id string) error
	DeleteAll() error
}

// Corpus supplies the items the in-memory fallback scans.
type Corpus func(ctx context.Context) []content.Item

// Service is the facade that tries the index first and falls back to a
// substring scan of the content.
type Service struct {
	backend Backend
	corpus  Corpus
	log     logger.Logger
	wg      sync.WaitGroup
}

// NewService creates a search service. backend may be nil.
func NewService(backend Backend, corpus Corpus, log logger.Logger) *Service {
	return &Service{backend: backend, corpus: corpus, log: log}
}

func (s *Service) available() bool {
	return s.backend != nil && s.backend.Healthy()
}

// Healthy reports whether queries are currently served by the index.
func (s *Service) Healthy() bool {
	return s.available()
}

// Search never fails: index errors fall back to the in-memory scan.
func (s *Service) Search(ctx context.Context, q Query) Response {
	if s.available() {
		results, total, err := s.backend.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text, Source: SourceIndex}
		}
		s.log.Warn("Index search failed, falling back to memory", logger.Err(err))
	}

	var items []content.Item
	if s.corpus != nil {
		items = s.corpus(ctx)
	}
	matches := content.Search(items, q.Text)
	results := make([]Result, 0, len(matches))
	for _, item := range matches {
		results = append(results, resultFromItem(item))
	}
	total := len(results)
	if q.Limit > 0 && len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return Response{Results: results, Total: total, Query: q.Text, Source: SourceMemory}
}

// IndexItem pushes one item to the index in the background.
func (s *Service) IndexItem(item content.Item) {
	if !s.available() {
		return
	}
	record := RecordFromItem(item)
	s.background(func() {
		if err := s.backend.Index([]Record{record}); err != nil {
			s.log.Warn("Index item failed", logger.String("content_id", record.ID), logger.Err(err))
		}
	})
}

// RemoveItem deletes one item from the index in the background.
func (s *Service) RemoveItem(id string) {
	if !s.available() {
		return
	}
	s.background(func() {
		if err := s.backend.Delete(id); err != nil {
			s.log.Warn("Remove item from index failed", logger.String("content_id", id), logger.Err(err))
		}
	})
}

// RemoveAll empties the index in the background.
func (s *Service) RemoveAll() {
	if !s.available() {
		return
	}
	s.background(func() {
		if err := s.backend.DeleteAll(); err != nil {
			s.log.Warn("Clear index failed", logger.Err(err))
		}
	})
}

// Reindex synchronously pushes every item. It returns the number indexed.
func (s *Service) Reindex(items []content.Item) (int, error) {
	if !s.available() {
		return 0, nil
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, RecordFromItem(item))
	}
	if err := s.backend.Index(records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Wait blocks until background index writes have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
