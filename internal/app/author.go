package app

import (
	"context"
	"errors"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"folio/site/internal/content"
	"folio/site/internal/logger"
	"folio/site/internal/store"
)

// DefaultAuthor is the configured profile used wherever no stored value
// exists.
func (s *Service) DefaultAuthor() content.Profile {
	def := s.cfg.DefaultAuthor
	return content.Profile{
		Name:        def.Name,
		Credentials: append([]string{}, def.Credentials...),
		LinkedIn:    def.LinkedIn,
		Email:       def.Email,
		OtherLinks:  []content.Link{},
	}
}

// Author returns the stored profile with each missing field filled from the
// configured default. It never fails.
func (s *Service) Author(ctx context.Context) content.Profile {
	def := s.DefaultAuthor()
	if !s.configured() {
		return def
	}
	stored, err := s.store.GetAuthor(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn("Load author failed, using default", logger.Err(err))
		}
		return def
	}

	profile := content.Profile{
		ID:          stored.ID,
		Name:        content.Deref(stored.Name),
		Credentials: []string(stored.Credentials),
		LinkedIn:    content.Deref(stored.LinkedIn),
		Email:       content.Deref(stored.Email),
		OtherLinks:  []content.Link(stored.OtherLinks),
	}
	if profile.Name == "" {
		profile.Name = def.Name
	}
	if len(profile.Credentials) == 0 {
		profile.Credentials = def.Credentials
	}
	if profile.LinkedIn == "" {
		profile.LinkedIn = def.LinkedIn
	}
	if profile.Email == "" {
		profile.Email = def.Email
	}
	if profile.OtherLinks == nil {
		profile.OtherLinks = []content.Link{}
	}
	return profile
}

func validateProfile(p content.Profile) error {
	return ozzo.ValidateStruct(&p,
		ozzo.Field(&p.Email, is.EmailFormat),
		ozzo.Field(&p.LinkedIn, is.URL),
		ozzo.Field(&p.OtherLinks, ozzo.Each(ozzo.By(func(value any) error {
			link, _ := value.(content.Link)
			return ozzo.ValidateStruct(&link,
				ozzo.Field(&link.Label, ozzo.Required),
				ozzo.Field(&link.URL, ozzo.Required, is.URL),
			)
		}))),
	)
}

// UpdateAuthor upserts the singleton profile. Empty optional fields are
// stored as NULL.
func (s *Service) UpdateAuthor(ctx context.Context, profile content.Profile) (updated content.Profile, err error) {
	defer func() { s.recordWrite("author", "upsert", err) }()

	if !s.configured() {
		return content.Profile{}, errNotConfigured()
	}
	profile.Name = strings.TrimSpace(profile.Name)
	profile.LinkedIn = strings.TrimSpace(profile.LinkedIn)
	profile.Email = strings.TrimSpace(profile.Email)
	if err := validateProfile(profile); err != nil {
		return content.Profile{}, err
	}

	row := store.Author{
		ID:          store.AuthorID,
		Name:        optional(profile.Name),
		Credentials: content.StringList(nonNilStrings(profile.Credentials)),
		LinkedIn:    optional(profile.LinkedIn),
		Email:       optional(profile.Email),
		OtherLinks:  store.LinkList(profile.OtherLinks),
	}
	if row.OtherLinks == nil {
		row.OtherLinks = store.LinkList{}
	}
	if _, err := s.store.UpsertAuthor(ctx, row); err != nil {
		s.log.Error("Upsert author failed", logger.Err(err))
		return content.Profile{}, errStore("Failed to update author")
	}
	return s.Author(ctx), nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
