package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
	"github.com/policyatlas/atlas-cli/internal/logger"
)

// DefaultReportLimit is the largest id set logged inline before the report
// switches to out-of-band storage.
const DefaultReportLimit = 100

// Reporter emits the set of processed document ids at the end of a run.
// Small sets are logged inline; larger sets are uploaded as a single JSON
// object keyed by the run id, keeping log and telemetry payloads bounded.
type Reporter struct {
	objects   driven.ObjectStore
	limit     int
	keyPrefix string
	logf      func(format string, args ...any)
}

// NewReporter creates a reporter. keyPrefix prefixes the object key of
// out-of-band reports (e.g. "reports/").
func NewReporter(objects driven.ObjectStore, limit int, keyPrefix string) *Reporter {
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	return &Reporter{
		objects:   objects,
		limit:     limit,
		keyPrefix: keyPrefix,
		logf:      logger.Info,
	}
}

// reportPayload is the serialized out-of-band report.
type reportPayload struct {
	RunID        string   `json:"run_id"`
	Count        int      `json:"count"`
	ProcessedIDs []string `json:"processed_ids"`
}

// Upload reports the processed ids for a run. Exactly one of the two
// channels is used: an inline log line, or a single object upload.
func (r *Reporter) Upload(ctx context.Context, ids []string, runID string) error {
	if len(ids) > r.limit {
		payload, err := json.Marshal(reportPayload{
			RunID:        runID,
			Count:        len(ids),
			ProcessedIDs: ids,
		})
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		key := r.keyPrefix + runID + ".json"
		if err := r.objects.Put(ctx, key, payload, "application/json"); err != nil {
			return fmt.Errorf("upload report %s: %w", key, err)
		}
		return nil
	}

	r.logf("run %s processed %d documents: %s", runID, len(ids), strings.Join(ids, ", "))
	return nil
}
