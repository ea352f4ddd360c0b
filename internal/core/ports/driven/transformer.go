package driven

import "github.com/policyatlas/atlas-cli/internal/core/domain"

// Transformer converts one identified family record into a graph of
// documents with relationship edges and classification labels.
type Transformer interface {
	// Transform is a pure function of its input: identical input always
	// yields structurally identical output. It returns
	// domain.ErrNoMatchingTransformations only when no document node can be
	// built at all.
	Transform(identified domain.Identified[domain.UpstreamFamily]) ([]domain.Document, error)
}
