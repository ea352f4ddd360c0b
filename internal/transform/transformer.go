package transform

import (
	"strings"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
)

// ProjectDocumentTitle is the sentinel title that marks a document as the
// primary version of a family in a project corpus. Compared
// case-insensitively.
const ProjectDocumentTitle = "project document"

// Config holds the corpus identifiers the classification rules key on.
type Config struct {
	// LitigationCorpusID is the corpus whose families are legal cases.
	LitigationCorpusID string

	// ProjectCorpora are the corpora whose families are multilateral
	// climate fund projects.
	ProjectCorpora []string
}

// DefaultConfig returns the production corpus identifiers.
func DefaultConfig() Config {
	return Config{
		LitigationCorpusID: "Academic.corpus.Litigation.n0000",
		ProjectCorpora: []string{
			"MCF.corpus.AF.n0000",
			"MCF.corpus.CIF.n0000",
			"MCF.corpus.GCF.n0000",
			"MCF.corpus.GEF.n0000",
		},
	}
}

// Ensure Transformer implements the interface.
var _ driven.Transformer = (*Transformer)(nil)

// Transformer builds document graphs from identified family records.
type Transformer struct {
	config         Config
	projectCorpora map[string]bool
}

// New creates a Transformer for the given corpus configuration.
func New(cfg Config) *Transformer {
	projects := make(map[string]bool, len(cfg.ProjectCorpora))
	for _, corpus := range cfg.ProjectCorpora {
		projects[corpus] = true
	}
	return &Transformer{
		config:         cfg,
		projectCorpora: projects,
	}
}

// Transform builds the full node list for a family: the family document
// first, then one document per upstream document in upstream order. Edges
// are wired in inverse pairs within this single invocation; they are never
// created one-sided.
//
// A family with no labels or no relationships is valid output.
// domain.ErrNoMatchingTransformations is returned only when no node can be
// built at all.
func (t *Transformer) Transform(identified domain.Identified[domain.UpstreamFamily]) ([]domain.Document, error) {
	family := identified.Data
	if family.ImportID == "" {
		return nil, domain.ErrNoMatchingTransformations
	}

	versionIdx := t.primaryVersionIndex(family)

	familyDoc := t.buildFamilyDocument(family, versionIdx >= 0)

	docs := make([]domain.Document, len(family.Documents))
	for i := range family.Documents {
		docs[i] = t.buildDocument(family, family.Documents[i])
	}

	// Embedded copies are snapshots taken before any edge is appended, so
	// wiring one side never leaks into the copy held by the other.
	familySnapshot := familyDoc.WithoutRelationships()
	snapshots := make([]domain.DocumentWithoutRelationships, len(docs))
	for i := range docs {
		snapshots[i] = docs[i].WithoutRelationships()
	}

	for i := range docs {
		if i == versionIdx {
			familyDoc.Relationships = append(familyDoc.Relationships,
				edge(domain.RelationshipHasVersion, snapshots[i]))
			docs[i].Relationships = append(docs[i].Relationships,
				edge(domain.RelationshipIsVersionOf, familySnapshot))
			continue
		}
		familyDoc.Relationships = append(familyDoc.Relationships,
			edge(domain.RelationshipHasMember, snapshots[i]))
		docs[i].Relationships = append(docs[i].Relationships,
			edge(domain.RelationshipMemberOf, familySnapshot))
	}

	result := make([]domain.Document, 0, len(docs)+1)
	result = append(result, familyDoc)
	result = append(result, docs...)
	return result, nil
}

// primaryVersionIndex finds the document that is "the same as" the family:
// an exact title match, or the project-document sentinel title when the
// family belongs to a project corpus. At most one document qualifies (first
// match wins); -1 means the family has no primary version, which is
// legitimate.
func (t *Transformer) primaryVersionIndex(family domain.UpstreamFamily) int {
	isProject := t.projectCorpora[family.Corpus.ImportID]
	for i, doc := range family.Documents {
		if doc.Title == family.Title {
			return i
		}
		if isProject && strings.EqualFold(doc.Title, ProjectDocumentTitle) {
			return i
		}
	}
	return -1
}

// edge builds a directed relationship carrying a snapshot of the target.
func edge(relType string, target domain.DocumentWithoutRelationships) domain.DocumentDocumentRelationship {
	return domain.DocumentDocumentRelationship{
		Type:     relType,
		Document: target,
	}
}
