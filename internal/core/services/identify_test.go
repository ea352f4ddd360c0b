package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

func TestIdentify(t *testing.T) {
	t.Run("carries the import id and source", func(t *testing.T) {
		envelope := domain.Envelope[domain.UpstreamFamily]{
			ID:         uuid.New(),
			Data:       domain.UpstreamFamily{ImportID: "Academic.family.1.0"},
			SourceName: "corpus_family",
		}

		got := Identify(envelope)

		assert.Equal(t, "Academic.family.1.0", got.ID)
		assert.Equal(t, "corpus_family", got.Source)
		assert.Equal(t, envelope.Data, got.Data)
	})

	t.Run("panics on a missing import id", func(t *testing.T) {
		envelope := domain.Envelope[domain.UpstreamFamily]{ID: uuid.New()}
		assert.Panics(t, func() { Identify(envelope) })
	})
}

func TestIdentifyFamilies(t *testing.T) {
	t.Run("flattens a page into identified records", func(t *testing.T) {
		envelope := domain.Envelope[[]domain.UpstreamFamily]{
			ID: uuid.New(),
			Data: []domain.UpstreamFamily{
				{ImportID: "F.1"},
				{ImportID: "F.2"},
			},
			SourceName: "corpus_family",
		}

		got := IdentifyFamilies(envelope)

		require.Len(t, got, 2)
		assert.Equal(t, "F.1", got[0].ID)
		assert.Equal(t, "F.2", got[1].ID)
		assert.Equal(t, "corpus_family", got[0].Source)
	})

	t.Run("empty page yields no records", func(t *testing.T) {
		envelope := domain.Envelope[[]domain.UpstreamFamily]{ID: uuid.New()}
		assert.Empty(t, IdentifyFamilies(envelope))
	})

	t.Run("panics on a record without an import id", func(t *testing.T) {
		envelope := domain.Envelope[[]domain.UpstreamFamily]{
			ID:   uuid.New(),
			Data: []domain.UpstreamFamily{{Title: "no id"}},
		}
		assert.Panics(t, func() { IdentifyFamilies(envelope) })
	})
}
