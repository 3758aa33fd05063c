// Package historyrepository contains the PostgreSQL implementation of the history log
package historyrepository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/codepad.net/internal/core/ports/primary"
	"gitlab.com/codepad.net/internal/core/ports/secondary"
	"gitlab.com/codepad.net/internal/domain"
	querybuilder "gitlab.com/codepad.net/internal/utils"
)

//go:embed schema.sql
var schema string

var _ secondary.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository implements the HistoryRepository interface with PostgreSQL
type HistoryRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewHistoryRepository creates a new PostgreSQL history repository
func NewHistoryRepository(db *sqlx.DB, logger primary.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the history table when missing
func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		r.logger.Error("Failed to create history schema", "error", err)
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Append inserts a snippet; seq keeps the append order
func (r *HistoryRepository) Append(ctx context.Context, snippet *domain.HistorySnippet) error {
	tbl := domain.GetHistorySnippetTable()
	query, args := querybuilder.NewQueryBuilder("").
		Insert(tbl.ID, tbl.Language, tbl.Code, tbl.CreatedAt).
		Into(tbl.TableName()).
		Values(snippet.ID, snippet.Language, snippet.Code, snippet.CreatedAt).
		Build()

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to append history snippet", "id", snippet.ID, "error", err)
		return fmt.Errorf("failed to append history snippet: %w", err)
	}

	return nil
}

// ListAll retrieves every snippet in append order
func (r *HistoryRepository) ListAll(ctx context.Context) ([]*domain.HistorySnippet, error) {
	tbl := domain.GetHistorySnippetTable()
	query, args := querybuilder.NewQueryBuilder("").
		Select(tbl.ID, tbl.Language, tbl.Code, tbl.CreatedAt).
		From(tbl.TableName()).
		OrderBy(tbl.Seq, true).
		Build()

	snippets := make([]*domain.HistorySnippet, 0)
	if err := r.db.SelectContext(ctx, &snippets, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list history snippets", "error", err)
		return nil, fmt.Errorf("failed to list history snippets: %w", err)
	}

	return snippets, nil
}
