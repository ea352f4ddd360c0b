package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RunContext carries the orchestration identifiers of the run that produced
// an envelope, so failures can be traced back and re-driven.
type RunContext struct {
	// TaskRunID identifies the extraction task within a run.
	TaskRunID string `json:"task_run_id"`

	// FlowRunID identifies the pipeline run as a whole.
	FlowRunID string `json:"flow_run_id"`
}

// ExtractedMetadata records where an envelope's payload came from.
type ExtractedMetadata struct {
	// Endpoint is the full URL the payload was fetched from.
	Endpoint string `json:"endpoint"`

	// HTTPStatus is the response status code.
	HTTPStatus int `json:"http_status"`
}

// Envelope wraps one unit of extracted data with provenance. An envelope is
// created once by a connector and never mutated afterwards.
type Envelope[T any] struct {
	// ID uniquely identifies this extraction.
	ID uuid.UUID `json:"id"`

	// Data is the validated, typed payload.
	Data T `json:"data"`

	// RawPayload is the payload as received on the wire.
	RawPayload json.RawMessage `json:"raw_payload"`

	// SourceName names the connector source (e.g. "corpus_family").
	SourceName string `json:"source_name"`

	// SourceRecordID identifies the extracted unit within the source.
	SourceRecordID string `json:"source_record_id"`

	// ContentType is the payload media type.
	ContentType string `json:"content_type"`

	// ConnectorVersion is the version of the connector that extracted this.
	ConnectorVersion string `json:"connector_version"`

	// ExtractedAt is when the extraction happened.
	ExtractedAt time.Time `json:"extracted_at"`

	// Metadata records the endpoint and status of the fetch.
	Metadata ExtractedMetadata `json:"metadata"`

	// Run carries the orchestration identifiers for traceability.
	Run RunContext `json:"run_context"`
}

// Identified is an envelope reduced to its canonical identifier, ready for
// transformation. The identifier always equals the upstream import id.
type Identified[T any] struct {
	Data   T      `json:"data"`
	ID     string `json:"id"`
	Source string `json:"source"`
}

// Identifiable is implemented by upstream records that carry an import id.
type Identifiable interface {
	RecordImportID() string
}

// PageFetchFailure describes the page at which pagination stopped. It is a
// value, not an error: partial success and a delimited failure coexist in
// the same result.
type PageFetchFailure struct {
	// Page is the page number that failed.
	Page int `json:"page"`

	// Err is the underlying error text.
	Err string `json:"error"`

	// TaskRunID identifies the extraction task, for re-driving.
	TaskRunID string `json:"task_run_id"`
}

// FetchResult is the outcome of a paginated family extraction. Envelopes
// collected before a failure are always retained.
type FetchResult struct {
	// Envelopes holds one envelope per successfully fetched page.
	Envelopes []Envelope[[]UpstreamFamily]

	// Failure is set when pagination stopped on an error, nil otherwise.
	Failure *PageFetchFailure
}
