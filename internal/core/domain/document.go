package domain

import "time"

// Relationship types form a fixed vocabulary of directed, typed edges
// between documents. Edges are always created in inverse pairs.
const (
	// RelationshipMemberOf marks a document as a member of another.
	RelationshipMemberOf = "member_of"

	// RelationshipHasMember is the inverse of RelationshipMemberOf.
	RelationshipHasMember = "has_member"

	// RelationshipIsVersionOf marks a document as a version of another.
	RelationshipIsVersionOf = "is_version_of"

	// RelationshipHasVersion is the inverse of RelationshipIsVersionOf.
	RelationshipHasVersion = "has_version"
)

// Label type vocabulary.
const (
	// LabelTypeEntityType classifies what kind of entity a document represents.
	LabelTypeEntityType = "entity_type"

	// LabelTypeDebug marks sentinel labels attached for downstream auditing.
	LabelTypeDebug = "debug"
)

// Debug label identifiers.
const (
	// DebugLabelNoLabels is attached to a family document when no
	// classification rule matched.
	DebugLabelNoLabels = "no_labels"

	// DebugLabelNoVersions is attached to a family document when no primary
	// version document was detected. This is signal, not an error.
	DebugLabelNoVersions = "no_versions"
)

// Label is a controlled-vocabulary classification tag.
type Label struct {
	// ID is the label identifier within its type (e.g. "Legal case").
	ID string `json:"id"`

	// Title is the human-readable form of the label.
	Title string `json:"title"`

	// Type is the vocabulary the label belongs to (e.g. "entity_type").
	Type string `json:"type"`
}

// NewEntityTypeLabel builds an entity_type label relationship for a value.
func NewEntityTypeLabel(value string) DocumentLabelRelationship {
	return DocumentLabelRelationship{
		Type: LabelTypeEntityType,
		Label: Label{
			ID:    value,
			Title: value,
			Type:  LabelTypeEntityType,
		},
	}
}

// NewDebugLabel builds a debug label relationship for a sentinel id.
func NewDebugLabel(id string) DocumentLabelRelationship {
	return DocumentLabelRelationship{
		Type: LabelTypeDebug,
		Label: Label{
			ID:    id,
			Title: id,
			Type:  LabelTypeDebug,
		},
	}
}

// DocumentLabelRelationship attaches a label to a document.
type DocumentLabelRelationship struct {
	// Type is the relationship type, usually matching the label type.
	Type string `json:"type"`

	// Label is the attached label.
	Label Label `json:"label"`

	// Timestamp optionally dates the relationship.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// DocumentDocumentRelationship is a directed, typed edge to another document.
// The target is embedded as a relationship-free snapshot to avoid unbounded
// recursion.
type DocumentDocumentRelationship struct {
	// Type is one of the Relationship* constants.
	Type string `json:"type"`

	// Document is a structural copy of the related document taken at
	// construction time. Mutating the original afterwards does not change it.
	Document DocumentWithoutRelationships `json:"document"`

	// Timestamp optionally dates the relationship.
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Item is a retrievable artefact belonging to a document.
type Item struct {
	// URL locates the artefact.
	URL string `json:"url"`
}

// Document is a node in the transformed document graph.
type Document struct {
	// ID is globally unique and always equals an upstream import id.
	ID string `json:"id"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// Description holds the upstream summary, if any.
	Description string `json:"description,omitempty"`

	// Labels classify the document. Family documents always carry at least
	// one label; a debug sentinel is attached when no rule matches.
	Labels []DocumentLabelRelationship `json:"labels"`

	// Relationships are the outgoing edges of this node.
	Relationships []DocumentDocumentRelationship `json:"relationships"`

	// Items are the document's retrievable artefacts.
	Items []Item `json:"items"`
}

// DocumentWithoutRelationships is the Document shape minus edges. It is used
// only as an edge payload, never as a standalone node.
type DocumentWithoutRelationships struct {
	ID          string                      `json:"id"`
	Title       string                      `json:"title"`
	Description string                      `json:"description,omitempty"`
	Labels      []DocumentLabelRelationship `json:"labels"`
	Items       []Item                      `json:"items"`
}

// WithoutRelationships returns a snapshot of the document with its edges
// stripped. Label and item slices are copied so the snapshot is independent
// of later mutation of the original.
func (d Document) WithoutRelationships() DocumentWithoutRelationships {
	snapshot := DocumentWithoutRelationships{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
	}
	if d.Labels != nil {
		snapshot.Labels = make([]DocumentLabelRelationship, len(d.Labels))
		copy(snapshot.Labels, d.Labels)
	}
	if d.Items != nil {
		snapshot.Items = make([]Item, len(d.Items))
		copy(snapshot.Items, d.Items)
	}
	return snapshot
}

// HasLabel reports whether the document carries a label with the given
// relationship type and label id.
func (d Document) HasLabel(relType, labelID string) bool {
	for _, l := range d.Labels {
		if l.Type == relType && l.Label.ID == labelID {
			return true
		}
	}
	return false
}
