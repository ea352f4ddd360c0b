package driven

import (
	"context"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// FamilySource fetches family and document records from the upstream API.
type FamilySource interface {
	// FetchAllFamilies pages through the upstream families endpoint.
	// Page-level errors never surface as an error return: pagination stops,
	// envelopes collected so far are retained, and the failure is recorded
	// on the result.
	FetchAllFamilies(ctx context.Context, run domain.RunContext) domain.FetchResult

	// FetchFamily fetches a single family record by import id.
	FetchFamily(ctx context.Context, importID string, run domain.RunContext) (domain.Envelope[domain.UpstreamFamily], error)

	// FetchDocument fetches a single document record by import id.
	FetchDocument(ctx context.Context, importID string, run domain.RunContext) (domain.Envelope[domain.UpstreamDocument], error)

	// Close releases resources.
	Close() error
}
