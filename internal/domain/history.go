package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistorySnippet is an append-only log entry written once per run
type HistorySnippet struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Language  string    `db:"language" json:"language"`
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type HistorySnippetTable struct {
	Seq       string
	ID        string
	Language  string
	Code      string
	CreatedAt string
}

func GetHistorySnippetTable() HistorySnippetTable {
	return HistorySnippetTable{
		Seq:       "seq",
		ID:        "id",
		Language:  "language",
		Code:      "code",
		CreatedAt: "created_at",
	}
}

func (HistorySnippetTable) TableName() string {
	return "history_snippets"
}

// NewHistorySnippet creates a new snippet stamped with the current time
func NewHistorySnippet(language, code string) *HistorySnippet {
	return &HistorySnippet{
		ID:        uuid.New(),
		Language:  language,
		Code:      code,
		CreatedAt: time.Now(),
	}
}
