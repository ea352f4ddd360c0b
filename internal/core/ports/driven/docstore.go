package driven

import (
	"context"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// DocumentStore is the downstream durable store for transformed documents.
type DocumentStore interface {
	// UpsertBatch stores the documents, keyed by document id, and returns
	// the ids written. Re-running with identical input is idempotent: no
	// duplicate label or relationship rows. Relationships no longer present
	// on a document are deleted.
	UpsertBatch(ctx context.Context, docs []domain.Document) ([]string, error)
}
