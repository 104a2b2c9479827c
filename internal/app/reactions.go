package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"folio/site/internal/logger"
	"folio/site/internal/store"
)

const (
	ReactionLike       = "like"
	ReactionHeart      = "heart"
	ReactionInsightful = "insightful"

	unknownIP = "unknown"
)

// ReactionTypes is the closed set of accepted reactions, in display order.
var ReactionTypes = []string{ReactionLike, ReactionHeart, ReactionInsightful}

type Reaction struct {
	ID           string    `json:"id"`
	ContentID    string    `json:"contentId"`
	ReactionType string    `json:"reactionType"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReactionInput struct {
	ContentID    string `json:"contentId"`
	ReactionType string `json:"reactionType"`
}

func (in ReactionInput) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.ContentID, ozzo.Required),
		ozzo.Field(&in.ReactionType, ozzo.Required, ozzo.In(ReactionLike, ReactionHeart, ReactionInsightful).Error("invalid reaction type")),
	)
}

// ReactionCounts returns a count for every reaction type, zero included.
// Store problems read as zero counts.
func (s *Service) ReactionCounts(ctx context.Context, contentID string) (map[string]int, error) {
	if strings.TrimSpace(contentID) == "" {
		return nil, errInvalid("contentId is required", nil)
	}
	counts := make(map[string]int, len(ReactionTypes))
	for _, kind := range ReactionTypes {
		counts[kind] = 0
	}
	if !s.configured() {
		return counts, nil
	}
	rows, err := s.store.CountReactions(ctx, contentID)
	if err != nil {
		s.log.Warn("Count reactions failed", logger.String("content_id", contentID), logger.Err(err))
		s.metrics.FailSoft("reactions")
		return counts, nil
	}
	for _, row := range rows {
		if _, ok := counts[row.ReactionType]; ok {
			counts[row.ReactionType] = row.Count
		}
	}
	return counts, nil
}

// AddReaction records one reaction per (content, type, client IP).
func (s *Service) AddReaction(ctx context.Context, in ReactionInput, clientIP string) (created Reaction, err error) {
	defer func() { s.recordWrite("reaction", "create", err) }()

	in.ContentID = strings.TrimSpace(in.ContentID)
	in.ReactionType = strings.TrimSpace(in.ReactionType)
	if err := in.Validate(); err != nil {
		return Reaction{}, err
	}
	if !s.configured() {
		return Reaction{}, errNotConfigured()
	}
	if clientIP == "" {
		clientIP = unknownIP
	}

	row, err := s.store.InsertReaction(ctx, store.Reaction{
		ID:           uuid.NewString(),
		ContentID:    in.ContentID,
		ReactionType: in.ReactionType,
		UserIP:       clientIP,
	})
	if errors.Is(err, store.ErrConflict) {
		return Reaction{}, errDuplicateReaction()
	}
	if err != nil {
		s.log.Error("Insert reaction failed", logger.String("content_id", in.ContentID), logger.Err(err))
		return Reaction{}, errStore("Failed to create reaction")
	}
	return Reaction{
		ID:           row.ID,
		ContentID:    row.ContentID,
		ReactionType: row.ReactionType,
		CreatedAt:    row.CreatedAt,
	}, nil
}

// ReactionIP identifies the reacting client: the first X-Forwarded-For
// entry, then X-Real-IP, then "unknown".
func ReactionIP(header http.Header) string {
	if forwarded := header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if real := strings.TrimSpace(header.Get("X-Real-IP")); real != "" {
		return real
	}
	return unknownIP
}
