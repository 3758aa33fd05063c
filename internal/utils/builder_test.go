package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSelect(t *testing.T) {
	query, args := NewQueryBuilder("public").
		Select("id", "code").
		From("history_snippets").
		Where("language = ?", "python").
		Where("seq > ?", 10).
		OrderBy("seq", true).
		Limit(5).
		Build()

	require.Equal(t, "SELECT id, code FROM public.history_snippets WHERE language = ? AND seq > ? ORDER BY seq ASC LIMIT ?", query)
	require.Equal(t, []interface{}{"python", 10, 5}, args)
}

func TestBuildSelectWithoutSchema(t *testing.T) {
	query, args := NewQueryBuilder("").From("history_snippets").OrderBy("seq", false).Build()

	require.Equal(t, "SELECT * FROM history_snippets ORDER BY seq DESC", query)
	require.Empty(t, args)
}

func TestBuildInsert(t *testing.T) {
	query, args := NewQueryBuilder("").
		Insert("id", "language").
		Into("history_snippets").
		Values(1, "go").
		Values(2, "c").
		Build()

	require.Equal(t, "INSERT INTO history_snippets (id, language) VALUES (?, ?), (?, ?)", query)
	require.Equal(t, []interface{}{1, "go", 2, "c"}, args)
}

func TestBuildInsertRowMismatch(t *testing.T) {
	query, args := NewQueryBuilder("").
		Insert("id", "language").
		Into("history_snippets").
		Values(1).
		Build()

	require.Empty(t, query)
	require.Nil(t, args)
}
