package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"ads_platform_backend/apperrors"
	"ads_platform_backend/models"
	"ads_platform_backend/store"
)

// maxCommentLength is counted in characters, matching the binding tags.
const maxCommentLength = 2000

type CommentService struct {
	store store.Storage
	rec   Recorder
	now   func() time.Time
}

func NewCommentService(s store.Storage, rec Recorder) *CommentService {
	return &CommentService{
		store: s,
		rec:   recorderOrNop(rec),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.Invalid("Comment text cannot be empty")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return "", apperrors.Invalid("Comment text is too long")
	}
	return text, nil
}

func (s *CommentService) ensureAd(ctx context.Context, adID int) error {
	if _, err := s.store.GetAd(ctx, adID); err != nil {
		return storeErr(err, "Ad not found", "Failed to fetch ad")
	}
	return nil
}

// List returns the comments of an ad in creation order.
func (s *CommentService) List(ctx context.Context, adID int) ([]*models.Comment, error) {
	if err := s.ensureAd(ctx, adID); err != nil {
		return nil, err
	}
	comments, err := s.store.ListComments(ctx, adID)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch comments", err)
	}
	return comments, nil
}

func (s *CommentService) Get(ctx context.Context, adID, id int) (*models.Comment, error) {
	c, err := s.store.GetComment(ctx, adID, id)
	if err != nil {
		return nil, storeErr(err, "Comment not found", "Failed to fetch comment")
	}
	return c, nil
}

// Create adds a comment by caller to an existing ad. Id, author and
// timestamp are assigned here regardless of what the client sent.
func (s *CommentService) Create(ctx context.Context, caller models.Caller, adID int, comment *models.Comment) (*models.Comment, error) {
	text, err := validateText(comment.Text)
	if err != nil {
		return nil, err
	}
	if err := s.ensureAd(ctx, adID); err != nil {
		return nil, err
	}

	comment.ID = 0
	comment.AdID = adID
	comment.AuthorID = caller.UserID
	comment.Text = text
	comment.CreatedAt = s.now()

	created, err := s.store.CreateComment(ctx, comment)
	if err != nil {
		return nil, storeErr(err, "Ad not found", "Failed to create comment")
	}
	s.rec.Mutation("comment", "create")
	return created, nil
}

// Update overwrites the text only.
func (s *CommentService) Update(ctx context.Context, caller models.Caller, adID, id int, text string) (*models.Comment, error) {
	existing, err := s.Get(ctx, adID, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(s.rec, caller, existing.Author, "comment"); err != nil {
		return nil, err
	}
	text, err = validateText(text)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateCommentText(ctx, adID, id, text)
	if err != nil {
		return nil, storeErr(err, "Comment not found", "Failed to update comment")
	}
	s.rec.Mutation("comment", "update")
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, caller models.Caller, adID, id int) error {
	existing, err := s.Get(ctx, adID, id)
	if err != nil {
		return err
	}
	if err := authorize(s.rec, caller, existing.Author, "comment"); err != nil {
		return err
	}
	if err := s.store.DeleteComment(ctx, adID, id); err != nil {
		return storeErr(err, "Comment not found", "Failed to delete comment")
	}
	s.rec.Mutation("comment", "delete")
	return nil
}
