package driving

import (
	"context"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

// FamilyFailure records a per-family transform or load failure. It does not
// abort the batch; sibling families are processed regardless.
type FamilyFailure struct {
	// ImportID is the family that failed.
	ImportID string `json:"import_id"`

	// Stage is the pipeline stage that failed ("transform", "load" or
	// "cache").
	Stage string `json:"stage"`

	// Err is the underlying error text.
	Err string `json:"error"`
}

// RunReport summarises a pipeline run. Partial success is the designed
// behaviour: processed ids are reported even when some units failed.
type RunReport struct {
	// Run carries the orchestration identifiers of this run.
	Run domain.RunContext `json:"run_context"`

	// PagesFetched is the number of family pages extracted.
	PagesFetched int `json:"pages_fetched"`

	// ProcessedIDs lists every document id loaded downstream, sorted.
	ProcessedIDs []string `json:"processed_ids"`

	// FamilyFailures lists families whose transform or load failed.
	FamilyFailures []FamilyFailure `json:"family_failures,omitempty"`

	// PageFailure is set when pagination stopped on an error.
	PageFailure *domain.PageFetchFailure `json:"page_failure,omitempty"`
}

// PipelineRunner runs the extract → identify → transform → load → report
// pipeline end to end.
type PipelineRunner interface {
	// Run executes one pipeline run. The returned report is valid even when
	// err is non-nil, so callers can see what succeeded.
	Run(ctx context.Context) (RunReport, error)
}
