// Package memory holds in-process implementations of the secondary ports
package memory

import (
	"context"
	"sync"

	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
)

var _ secondary.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository is an append-only in-memory history log
type HistoryRepository struct {
	mu       sync.RWMutex
	snippets []*domain.HistorySnippet
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Append(_ context.Context, snippet *domain.HistorySnippet) error {
	cp := *snippet
	r.mu.Lock()
	r.snippets = append(r.snippets, &cp)
	r.mu.Unlock()
	return nil
}

func (r *HistoryRepository) ListAll(_ context.Context) ([]*domain.HistorySnippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.HistorySnippet, 0, len(r.snippets))
	for _, s := range r.snippets {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}
