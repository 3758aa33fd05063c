package history

import (
	"context"
	"fmt"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

var _ IHistoryService = (*HistoryService)(nil)

type HistoryService struct {
	repo   secondary.HistoryRepository
	logger primary.Logger
}

func NewHistoryService(repo secondary.HistoryRepository, logger primary.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

func (s *HistoryService) Record(ctx context.Context, language, code string) error {
	snippet := domain.NewHistorySnippet(language, code)
	if err := s.repo.Append(ctx, snippet); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}
	s.logger.Debug("History recorded", "id", snippet.ID, "language", language)
	return nil
}

func (s *HistoryService) List(ctx context.Context) ([]*domain.HistorySnippet, error) {
	snippets, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return snippets, nil
}
