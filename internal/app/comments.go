package app

import (
	"context"
	"errors"
	"strings"
	"time"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"folio/site/internal/logger"
	"folio/site/internal/store"
)

const maxCommentLength = 5000

type Comment struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"contentId"`
	AuthorName  string    `json:"authorName"`
	AuthorEmail string    `json:"authorEmail"`
	Comment     string    `json:"comment"`
	Date        time.Time `json:"date"`
	Approved    bool      `json:"approved"`
}

type CommentInput struct {
	ContentID   string `json:"contentId"`
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	Comment     string `json:"comment"`
}

func (in CommentInput) Validate() error {
	return ozzo.ValidateStruct(&in,
		ozzo.Field(&in.ContentID, ozzo.Required),
		ozzo.Field(&in.AuthorName, ozzo.Required),
		ozzo.Field(&in.AuthorEmail, ozzo.Required, is.EmailFormat),
		ozzo.Field(&in.Comment, ozzo.Required, ozzo.RuneLength(0, maxCommentLength)),
	)
}

func commentFromRow(row store.Comment) Comment {
	return Comment{
		ID:          row.ID,
		ContentID:   row.ContentID,
		AuthorName:  row.AuthorName,
		AuthorEmail: row.AuthorEmail,
		Comment:     row.Comment,
		Date:        row.CreatedAt,
		Approved:    row.Approved,
	}
}

func commentsFromRows(rows []store.Comment) []Comment {
	out := make([]Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, commentFromRow(row))
	}
	return out
}

// Comments lists the approved comments on an item, newest first. Store
// problems read as no comments.
func (s *Service) Comments(ctx context.Context, contentID string) ([]Comment, error) {
	if strings.TrimSpace(contentID) == "" {
		return nil, errInvalid("contentId is required", nil)
	}
	if !s.configured() {
		return []Comment{}, nil
	}
	rows, err := s.store.ListApprovedComments(ctx, contentID)
	if err != nil {
		s.log.Warn("List comments failed", logger.String("content_id", contentID), logger.Err(err))
		s.metrics.FailSoft("comments")
		return []Comment{}, nil
	}
	return commentsFromRows(rows), nil
}

// RecentComments feeds the moderation screen.
func (s *Service) RecentComments(ctx context.Context, limit int) []Comment {
	if !s.configured() {
		return []Comment{}
	}
	rows, err := s.store.ListRecentComments(ctx, limit)
	if err != nil {
		s.log.Warn("List recent comments failed", logger.Err(err))
		s.metrics.FailSoft("comments")
		return []Comment{}
	}
	return commentsFromRows(rows)
}

// AddComment stores a comment. Comments are approved on write.
func (s *Service) AddComment(ctx context.Context, in CommentInput) (created Comment, err error) {
	defer func() { s.recordWrite("comment", "create", err) }()

	in.ContentID = strings.TrimSpace(in.ContentID)
	in.AuthorName = strings.TrimSpace(in.AuthorName)
	in.AuthorEmail = strings.TrimSpace(in.AuthorEmail)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := in.Validate(); err != nil {
		return Comment{}, err
	}
	if !s.configured() {
		return Comment{}, errNotConfigured()
	}

	row, err := s.store.InsertComment(ctx, store.Comment{
		ID:          uuid.NewString(),
		ContentID:   in.ContentID,
		AuthorName:  in.AuthorName,
		AuthorEmail: in.AuthorEmail,
		Comment:     in.Comment,
		Approved:    true,
	})
	if err != nil {
		s.log.Error("Insert comment failed", logger.String("content_id", in.ContentID), logger.Err(err))
		return Comment{}, errStore("Failed to create comment")
	}
	return commentFromRow(row), nil
}

func (s *Service) DeleteComment(ctx context.Context, id string) (err error) {
	defer func() { s.recordWrite("comment", "delete", err) }()

	if strings.TrimSpace(id) == "" {
		return errInvalid("Comment ID is required", nil)
	}
	if !s.configured() {
		return errNotConfigured()
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound("Comment")
		}
		s.log.Error("Delete comment failed", logger.String("comment_id", id), logger.Err(err))
		return errStore("Failed to delete comment")
	}
	return nil
}
