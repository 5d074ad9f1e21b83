package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
)

type PostCommentaryInput struct {
	Minute      int    `json:"minute"`
	Text        string `json:"text"`
	IsImportant bool   `json:"is_important"`
}

type CommentaryService interface {
	// Post сохраняет ручной комментарий; авто-комментарии к событиям
	// создаёт EventService вместе с самим событием.
	Post(ctx context.Context, matchID, authorID int, input PostCommentaryInput) (*models.Commentary, error)
	ListByMatch(ctx context.Context, matchID int, importantOnly bool) ([]*models.Commentary, error)
}

type commentaryService struct {
	matchRepo      repositories.MatchRepository
	commentaryRepo repositories.CommentaryRepository
}

func NewCommentaryService(
	matchRepo repositories.MatchRepository,
	commentaryRepo repositories.CommentaryRepository,
) CommentaryService {
	return &commentaryService{
		matchRepo:      matchRepo,
		commentaryRepo: commentaryRepo,
	}
}

func (s *commentaryService) Post(ctx context.Context, matchID, authorID int, input PostCommentaryInput) (*models.Commentary, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: commentary text is required", ErrValidationFailed)
	}
	if input.Minute < 0 {
		return nil, fmt.Errorf("%w: minute cannot be negative", ErrValidationFailed)
	}

	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	c := &models.Commentary{
		MatchID:     matchID,
		Minute:      input.Minute,
		Text:        text,
		IsImportant: input.IsImportant,
		AuthorID:    &authorID,
	}
	if err := s.commentaryRepo.Create(ctx, nil, c); err != nil {
		return nil, fmt.Errorf("failed to create commentary: %w", err)
	}
	return c, nil
}

func (s *commentaryService) ListByMatch(ctx context.Context, matchID int, importantOnly bool) ([]*models.Commentary, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.commentaryRepo.ListByMatch(ctx, matchID, importantOnly)
}
