package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// identified wraps a family the way the identify stage does.
func identified(family domain.UpstreamFamily) domain.Identified[domain.UpstreamFamily] {
	return domain.Identified[domain.UpstreamFamily]{
		Data:   family,
		ID:     family.ImportID,
		Source: "corpus_family",
	}
}

func litigationFamily() domain.UpstreamFamily {
	return domain.UpstreamFamily{
		ImportID: "Academic.family.1.0",
		Title:    "Smith v. Carbon Corp",
		Summary:  "A landmark climate liability case.",
		Corpus: domain.UpstreamCorpus{
			ImportID: "Academic.corpus.Litigation.n0000",
		},
		Documents: []domain.UpstreamDocument{
			{
				ImportID: "Academic.document.1.1",
				Title:    "Complaint",
				Events: []domain.UpstreamEvent{
					{ImportID: "Academic.event.1.1", EventType: "Filing"},
					{ImportID: "Academic.event.1.2", EventType: "Judgment"},
				},
				CDNObject: "https://cdn.example.org/complaint.pdf",
			},
		},
	}
}

func projectFamily() domain.UpstreamFamily {
	return domain.UpstreamFamily{
		ImportID: "MCF.family.GCF.42",
		Title:    "Coastal Resilience Programme",
		Corpus: domain.UpstreamCorpus{
			ImportID: "MCF.corpus.GCF.n0000",
		},
		Documents: []domain.UpstreamDocument{
			{
				ImportID:  "MCF.document.GCF.42.1",
				Title:     "Project Document",
				SourceURL: "https://example.org/project.pdf",
			},
			{
				ImportID: "MCF.document.GCF.42.2",
				Title:    "Appraisal Report",
				ValidMetadata: map[string][]string{
					"role": {"SUPPORTING DOCUMENTATION"},
				},
			},
		},
	}
}

func TestTransform_FamilyNodeFirst(t *testing.T) {
	tr := New(DefaultConfig())

	docs, err := tr.Transform(identified(litigationFamily()))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Academic.family.1.0", docs[0].ID)
	assert.Equal(t, "Academic.document.1.1", docs[1].ID)
}

func TestTransform_LitigationFamily(t *testing.T) {
	tr := New(DefaultConfig())

	t.Run("family is classified as legal case", func(t *testing.T) {
		docs, err := tr.Transform(identified(litigationFamily()))
		require.NoError(t, err)

		family := docs[0]
		assert.True(t, family.HasLabel(domain.LabelTypeEntityType, "Legal case"))
		assert.False(t, family.HasLabel(domain.LabelTypeDebug, domain.DebugLabelNoLabels))
		assert.Equal(t, "A landmark climate liability case.", family.Description)
	})

	t.Run("document takes the first event's type as label", func(t *testing.T) {
		docs, err := tr.Transform(identified(litigationFamily()))
		require.NoError(t, err)

		doc := docs[1]
		assert.True(t, doc.HasLabel(domain.LabelTypeEntityType, "Filing"))
		assert.False(t, doc.HasLabel(domain.LabelTypeEntityType, "Judgment"))
	})

	t.Run("document without events has no event label", func(t *testing.T) {
		family := litigationFamily()
		family.Documents[0].Events = nil

		docs, err := tr.Transform(identified(family))
		require.NoError(t, err)
		assert.Empty(t, docs[1].Labels)
	})
}

func TestTransform_ProjectFamily(t *testing.T) {
	tr := New(DefaultConfig())

	t.Run("family with documents is classified as fund project", func(t *testing.T) {
		docs, err := tr.Transform(identified(projectFamily()))
		require.NoError(t, err)

		family := docs[0]
		assert.True(t, family.HasLabel(domain.LabelTypeEntityType, "Multilateral climate fund project"))
	})

	t.Run("family without documents gets the debug fallback", func(t *testing.T) {
		family := projectFamily()
		family.Documents = nil

		docs, err := tr.Transform(identified(family))
		require.NoError(t, err)
		require.Len(t, docs, 1)

		assert.True(t, docs[0].HasLabel(domain.LabelTypeDebug, domain.DebugLabelNoLabels))
		assert.True(t, docs[0].HasLabel(domain.LabelTypeDebug, domain.DebugLabelNoVersions))
	})

	t.Run("role metadata becomes a sentence-cased label", func(t *testing.T) {
		docs, err := tr.Transform(identified(projectFamily()))
		require.NoError(t, err)

		appraisal := docs[2]
		assert.True(t, appraisal.HasLabel(domain.LabelTypeEntityType, "Supporting documentation"))
	})
}

func TestTransform_VersionDetection(t *testing.T) {
	tr := New(DefaultConfig())

	t.Run("exact title match becomes the primary version", func(t *testing.T) {
		family := litigationFamily()
		family.Documents = append(family.Documents, domain.UpstreamDocument{
			ImportID: "Academic.document.1.2",
			Title:    "Smith v. Carbon Corp",
		})

		docs, err := tr.Transform(identified(family))
		require.NoError(t, err)
		require.Len(t, docs, 3)

		familyDoc, version := docs[0], docs[2]
		require.Len(t, version.Relationships, 1)
		assert.Equal(t, domain.RelationshipIsVersionOf, version.Relationships[0].Type)
		assert.Equal(t, familyDoc.ID, version.Relationships[0].Document.ID)

		var hasVersion bool
		for _, rel := range familyDoc.Relationships {
			if rel.Type == domain.RelationshipHasVersion {
				hasVersion = true
				assert.Equal(t, version.ID, rel.Document.ID)
			}
		}
		assert.True(t, hasVersion)
		assert.False(t, familyDoc.HasLabel(domain.LabelTypeDebug, domain.DebugLabelNoVersions))
	})

	t.Run("project document sentinel matches case-insensitively", func(t *testing.T) {
		docs, err := tr.Transform(identified(projectFamily()))
		require.NoError(t, err)

		version := docs[1]
		require.Len(t, version.Relationships, 1)
		assert.Equal(t, domain.RelationshipIsVersionOf, version.Relationships[0].Type)
	})

	t.Run("sentinel title is ignored outside project corpora", func(t *testing.T) {
		family := litigationFamily()
		family.Documents[0].Title = "Project Document"

		docs, err := tr.Transform(identified(family))
		require.NoError(t, err)

		assert.Equal(t, domain.RelationshipMemberOf, docs[1].Relationships[0].Type)
		assert.True(t, docs[0].HasLabel(domain.LabelTypeDebug, domain.DebugLabelNoVersions))
	})

	t.Run("only the first matching document is the version", func(t *testing.T) {
		family := projectFamily()
		family.Documents = append(family.Documents, domain.UpstreamDocument{
			ImportID: "MCF.document.GCF.42.3",
			Title:    "project document",
		})

		docs, err := tr.Transform(identified(family))
		require.NoError(t, err)

		assert.Equal(t, domain.RelationshipIsVersionOf, docs[1].Relationships[0].Type)
		assert.Equal(t, domain.RelationshipMemberOf, docs[3].Relationships[0].Type)
	})
}

func TestTransform_Membership(t *testing.T) {
	tr := New(DefaultConfig())

	docs, err := tr.Transform(identified(litigationFamily()))
	require.NoError(t, err)

	familyDoc, member := docs[0], docs[1]

	require.Len(t, member.Relationships, 1)
	assert.Equal(t, domain.RelationshipMemberOf, member.Relationships[0].Type)
	assert.Equal(t, familyDoc.ID, member.Relationships[0].Document.ID)

	memberEdges := 0
	for _, rel := range familyDoc.Relationships {
		if rel.Type == domain.RelationshipHasMember {
			memberEdges++
			assert.Equal(t, member.ID, rel.Document.ID)
		}
	}
	assert.Equal(t, 1, memberEdges)
}

func TestTransform_EmbeddedSnapshots(t *testing.T) {
	tr := New(DefaultConfig())

	t.Run("member edge embeds the family's finalized labels", func(t *testing.T) {
		docs, err := tr.Transform(identified(litigationFamily()))
		require.NoError(t, err)

		embedded := docs[1].Relationships[0].Document
		require.Len(t, embedded.Labels, 1)
		assert.Equal(t, "Legal case", embedded.Labels[0].Label.ID)
	})

	t.Run("snapshots are independent of later mutation", func(t *testing.T) {
		docs, err := tr.Transform(identified(litigationFamily()))
		require.NoError(t, err)

		docs[0].Labels[0].Label.ID = "mutated"
		assert.Equal(t, "Legal case", docs[1].Relationships[0].Document.Labels[0].Label.ID)
	})

	t.Run("items survive into snapshots", func(t *testing.T) {
		docs, err := tr.Transform(identified(litigationFamily()))
		require.NoError(t, err)

		var embedded domain.DocumentWithoutRelationships
		for _, rel := range docs[0].Relationships {
			if rel.Type == domain.RelationshipHasMember {
				embedded = rel.Document
			}
		}
		require.Len(t, embedded.Items, 1)
		assert.Equal(t, "https://cdn.example.org/complaint.pdf", embedded.Items[0].URL)
	})
}

func TestTransform_Items(t *testing.T) {
	tr := New(DefaultConfig())

	family := litigationFamily()
	family.Documents[0].SourceURL = "https://example.org/source.pdf"

	docs, err := tr.Transform(identified(family))
	require.NoError(t, err)

	require.Len(t, docs[1].Items, 2)
	assert.Equal(t, "https://cdn.example.org/complaint.pdf", docs[1].Items[0].URL)
	assert.Equal(t, "https://example.org/source.pdf", docs[1].Items[1].URL)
}

func TestTransform_Deterministic(t *testing.T) {
	tr := New(DefaultConfig())

	first, err := tr.Transform(identified(projectFamily()))
	require.NoError(t, err)
	second, err := tr.Transform(identified(projectFamily()))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransform_NoMatchingTransformations(t *testing.T) {
	tr := New(DefaultConfig())

	_, err := tr.Transform(identified(domain.UpstreamFamily{}))
	assert.ErrorIs(t, err, domain.ErrNoMatchingTransformations)
}

func TestTransform_LabelDedup(t *testing.T) {
	tr := New(DefaultConfig())

	family := litigationFamily()
	family.Documents[0].ValidMetadata = map[string][]string{
		"role": {"FILING"},
	}

	docs, err := tr.Transform(identified(family))
	require.NoError(t, err)

	// Event type "Filing" and sentence-cased role "Filing" collapse to one.
	require.Len(t, docs[1].Labels, 1)
	assert.Equal(t, "Filing", docs[1].Labels[0].Label.ID)
}

func TestSentenceCase(t *testing.T) {
	cases := map[string]string{
		"SUPPORTING LEGISLATION": "Supporting legislation",
		"filing":                 "Filing",
		"  padded  ":             "Padded",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sentenceCase(in))
	}
}
