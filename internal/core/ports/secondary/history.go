package secondary

import (
	"context"

	"gitlab.com/codepad.net/internal/domain"
)

// HistoryRepository is an append-only log of executed snippets
type HistoryRepository interface {
	// Append stores a snippet after every previously appended one
	Append(ctx context.Context, snippet *domain.HistorySnippet) error

	// ListAll returns every snippet in append order
	ListAll(ctx context.Context) ([]*domain.HistorySnippet, error)
}
