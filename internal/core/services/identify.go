package services

import (
	"fmt"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// Identify extracts the canonical identifier from an envelope, producing the
// input for the transform stage. Pure function, no I/O. The identifier
// always equals the upstream import id.
//
// A missing import id is a programming-contract violation, not an expected
// failure: the connector validates records on extraction, so an envelope
// without one cannot legitimately exist. Identify panics loudly rather than
// propagating a half-identified record.
func Identify[T domain.Identifiable](envelope domain.Envelope[T]) domain.Identified[T] {
	id := envelope.Data.RecordImportID()
	if id == "" {
		panic(fmt.Sprintf("identify: envelope %s from source %q has no import id",
			envelope.ID, envelope.SourceName))
	}
	return domain.Identified[T]{
		Data:   envelope.Data,
		ID:     id,
		Source: envelope.SourceName,
	}
}

// IdentifyFamilies flattens one page envelope into identified families, one
// per record, each consumed exactly once by the transform stage.
func IdentifyFamilies(envelope domain.Envelope[[]domain.UpstreamFamily]) []domain.Identified[domain.UpstreamFamily] {
	identified := make([]domain.Identified[domain.UpstreamFamily], 0, len(envelope.Data))
	for _, family := range envelope.Data {
		if family.ImportID == "" {
			panic(fmt.Sprintf("identify: family record without import id in envelope %s", envelope.ID))
		}
		identified = append(identified, domain.Identified[domain.UpstreamFamily]{
			Data:   family,
			ID:     family.ImportID,
			Source: envelope.SourceName,
		})
	}
	return identified
}
