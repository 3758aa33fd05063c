package history

import (
	"context"

	"gitlab.com/codepad.net/internal/domain"
)

// IHistoryService records and lists executed snippets
type IHistoryService interface {
	// Record appends one snippet for a run
	Record(ctx context.Context, language, code string) error

	// List returns every snippet in append order
	List(ctx context.Context) ([]*domain.HistorySnippet, error)
}
