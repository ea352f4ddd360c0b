package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithoutRelationships(t *testing.T) {
	doc := Document{
		ID:          "Academic.family.1.0",
		Title:       "Smith v. Carbon Corp",
		Description: "summary",
		Labels:      []DocumentLabelRelationship{NewEntityTypeLabel("Legal case")},
		Relationships: []DocumentDocumentRelationship{
			{Type: RelationshipHasMember},
		},
		Items: []Item{{URL: "https://cdn.example.org/a.pdf"}},
	}

	snapshot := doc.WithoutRelationships()

	t.Run("copies scalar fields", func(t *testing.T) {
		assert.Equal(t, doc.ID, snapshot.ID)
		assert.Equal(t, doc.Title, snapshot.Title)
		assert.Equal(t, doc.Description, snapshot.Description)
	})

	t.Run("copies labels and items by value", func(t *testing.T) {
		require.Len(t, snapshot.Labels, 1)
		require.Len(t, snapshot.Items, 1)

		doc.Labels[0].Label.ID = "mutated"
		doc.Items[0].URL = "mutated"

		assert.Equal(t, "Legal case", snapshot.Labels[0].Label.ID)
		assert.Equal(t, "https://cdn.example.org/a.pdf", snapshot.Items[0].URL)
	})

	t.Run("preserves nil slices", func(t *testing.T) {
		empty := Document{ID: "x"}.WithoutRelationships()
		assert.Nil(t, empty.Labels)
		assert.Nil(t, empty.Items)
	})
}

func TestHasLabel(t *testing.T) {
	doc := Document{
		Labels: []DocumentLabelRelationship{
			NewEntityTypeLabel("Legal case"),
			NewDebugLabel(DebugLabelNoVersions),
		},
	}

	assert.True(t, doc.HasLabel(LabelTypeEntityType, "Legal case"))
	assert.True(t, doc.HasLabel(LabelTypeDebug, DebugLabelNoVersions))
	assert.False(t, doc.HasLabel(LabelTypeEntityType, DebugLabelNoVersions))
	assert.False(t, doc.HasLabel(LabelTypeDebug, "Legal case"))
}

func TestNewLabelConstructors(t *testing.T) {
	entity := NewEntityTypeLabel("Filing")
	assert.Equal(t, LabelTypeEntityType, entity.Type)
	assert.Equal(t, "Filing", entity.Label.ID)
	assert.Equal(t, "Filing", entity.Label.Title)
	assert.Equal(t, LabelTypeEntityType, entity.Label.Type)

	debug := NewDebugLabel(DebugLabelNoLabels)
	assert.Equal(t, LabelTypeDebug, debug.Type)
	assert.Equal(t, DebugLabelNoLabels, debug.Label.ID)
}
