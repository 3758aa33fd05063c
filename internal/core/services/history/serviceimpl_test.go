package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/codepad.net/internal/adapter/logging"
	"gitlab.com/codepad.net/internal/adapter/memory"
	"gitlab.com/codepad.net/internal/domain"
)

type failingRepo struct{}

func (failingRepo) Append(context.Context, *domain.HistorySnippet) error {
	return errors.New("db down")
}

func (failingRepo) ListAll(context.Context) ([]*domain.HistorySnippet, error) {
	return nil, errors.New("db down")
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewHistoryRepository(), logging.NewNopLogger())

	require.NoError(t, svc.Record(ctx, "python", "print(1)"))
	require.NoError(t, svc.Record(ctx, "python", "print(2)"))

	snippets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	require.Equal(t, "print(1)", snippets[0].Code)
	require.False(t, snippets[0].CreatedAt.IsZero())
}

func TestRecordWrapsRepositoryError(t *testing.T) {
	svc := NewHistoryService(failingRepo{}, logging.NewNopLogger())

	err := svc.Record(context.Background(), "python", "x")
	require.ErrorContains(t, err, "db down")

	_, err = svc.List(context.Background())
	require.ErrorContains(t, err, "failed to list history")
}
