package domain

import "time"

// UpstreamEvent is a dated event attached to an upstream family or document.
type UpstreamEvent struct {
	ImportID  string    `json:"import_id"`
	EventType string    `json:"event_type"`
	Date      time.Time `json:"date"`
}

// UpstreamCorpusType describes the kind of corpus a family belongs to.
type UpstreamCorpusType struct {
	Name string `json:"name"`
}

// UpstreamOrganisation is the organisation that maintains a corpus.
type UpstreamOrganisation struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UpstreamCorpus identifies the corpus a family belongs to.
type UpstreamCorpus struct {
	ImportID     string               `json:"import_id"`
	CorpusType   UpstreamCorpusType   `json:"corpus_type"`
	Organisation UpstreamOrganisation `json:"organisation"`
}

// UpstreamCollection is a named grouping of families maintained upstream.
// Collections are parsed from the wire but do not become graph nodes:
// document ids are never synthesized from anything but family or document
// import ids.
type UpstreamCollection struct {
	ImportID    string `json:"import_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpstreamDocument is a single document record nested inside a family.
type UpstreamDocument struct {
	ImportID      string              `json:"import_id"`
	Title         string              `json:"title"`
	ValidMetadata map[string][]string `json:"valid_metadata"`
	Events        []UpstreamEvent     `json:"events"`

	// CDNObject and SourceURL locate the document's artefacts; either may
	// be empty.
	CDNObject string `json:"cdn_object"`
	SourceURL string `json:"source_url"`
}

// RecordImportID implements Identifiable.
func (d UpstreamDocument) RecordImportID() string {
	return d.ImportID
}

// UpstreamFamily is a logical grouping of one or more related documents as
// served by the Corpus API.
type UpstreamFamily struct {
	ImportID    string               `json:"import_id"`
	Title       string               `json:"title"`
	Summary     string               `json:"summary"`
	Corpus      UpstreamCorpus       `json:"corpus"`
	Documents   []UpstreamDocument   `json:"documents"`
	Events      []UpstreamEvent      `json:"events"`
	Collections []UpstreamCollection `json:"collections"`
	Geographies []string             `json:"geographies"`
	Category    string               `json:"category"`
}

// RecordImportID implements Identifiable.
func (f UpstreamFamily) RecordImportID() string {
	return f.ImportID
}
