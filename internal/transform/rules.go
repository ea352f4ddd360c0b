package transform

import (
	"strings"
	"unicode"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// Entity type label values assigned by the classification rules.
const (
	EntityTypeLegalCase  = "Legal case"
	EntityTypeMCFProject = "Multilateral climate fund project"
)

// roleMetadataKey is the valid_metadata key whose first value becomes an
// entity type label on member and version documents.
const roleMetadataKey = "role"

// buildFamilyDocument builds the node for the family itself. The family node
// always carries at least one label: when no classification rule matches, a
// debug sentinel is attached, and a second one marks the absence of a
// primary version. Both are signal for downstream auditing, not errors.
func (t *Transformer) buildFamilyDocument(family domain.UpstreamFamily, hasVersion bool) domain.Document {
	var labels []domain.DocumentLabelRelationship

	if family.Corpus.ImportID == t.config.LitigationCorpusID {
		labels = append(labels, domain.NewEntityTypeLabel(EntityTypeLegalCase))
	}
	if t.projectCorpora[family.Corpus.ImportID] && len(family.Documents) > 0 {
		labels = append(labels, domain.NewEntityTypeLabel(EntityTypeMCFProject))
	}
	if len(labels) == 0 {
		labels = append(labels, domain.NewDebugLabel(domain.DebugLabelNoLabels))
	}
	if !hasVersion {
		labels = append(labels, domain.NewDebugLabel(domain.DebugLabelNoVersions))
	}

	return domain.Document{
		ID:          family.ImportID,
		Title:       family.Title,
		Description: family.Summary,
		Labels:      dedupeLabels(labels),
	}
}

// buildDocument builds the node for a member or version document. Unlike the
// family node, a document may legitimately end up with zero labels: the rule
// table has no debug fallback at document level.
func (t *Transformer) buildDocument(family domain.UpstreamFamily, doc domain.UpstreamDocument) domain.Document {
	var labels []domain.DocumentLabelRelationship

	if family.Corpus.ImportID == t.config.LitigationCorpusID && len(doc.Events) > 0 {
		labels = append(labels, domain.NewEntityTypeLabel(doc.Events[0].EventType))
	}
	if roles := doc.ValidMetadata[roleMetadataKey]; len(roles) > 0 && roles[0] != "" {
		labels = append(labels, domain.NewEntityTypeLabel(sentenceCase(roles[0])))
	}

	return domain.Document{
		ID:     doc.ImportID,
		Title:  doc.Title,
		Labels: dedupeLabels(labels),
		Items:  documentItems(doc),
	}
}

// documentItems collects the document's artefact URLs, CDN copy first.
func documentItems(doc domain.UpstreamDocument) []domain.Item {
	var items []domain.Item
	if doc.CDNObject != "" {
		items = append(items, domain.Item{URL: doc.CDNObject})
	}
	if doc.SourceURL != "" {
		items = append(items, domain.Item{URL: doc.SourceURL})
	}
	return items
}

// dedupeLabels drops labels that repeat an earlier (type, label) pair,
// keeping first occurrences in order. Rules may fire more than once for the
// same value; the graph carries each label at most once.
func dedupeLabels(labels []domain.DocumentLabelRelationship) []domain.DocumentLabelRelationship {
	if len(labels) < 2 {
		return labels
	}

	type key struct {
		relType   string
		labelType string
		labelID   string
	}
	seen := make(map[key]bool, len(labels))
	out := labels[:0]
	for _, l := range labels {
		k := key{relType: l.Type, labelType: l.Label.Type, labelID: l.Label.ID}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

// sentenceCase lowercases a value and capitalises its first rune, turning
// upstream role values like "SUPPORTING LEGISLATION" into "Supporting
// legislation".
func sentenceCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
