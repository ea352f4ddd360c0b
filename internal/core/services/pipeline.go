package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driving"
	"github.com/policyatlas/atlas-cli/internal/logger"
)

// Pipeline stage names recorded on per-family failures.
const (
	stageTransform = "transform"
	stageLoad      = "load"
	stageCache     = "cache"
)

// DefaultWorkers is the fan-out width used when none is configured.
const DefaultWorkers = 10

// Ensure Pipeline implements the driving port.
var _ driving.PipelineRunner = (*Pipeline)(nil)

// PipelineParams wires the pipeline's dependencies. Source, Transformer and
// Store are required; Cache and Reporter are optional.
type PipelineParams struct {
	Source      driven.FamilySource
	Transformer driven.Transformer
	Store       driven.DocumentStore

	// Cache receives one JSON object per transformed document, keyed
	// CachePrefix + id + ".json". Nil disables caching.
	Cache       driven.ObjectStore
	CachePrefix string

	// Reporter emits the processed id set at the end of the run. Nil
	// disables reporting.
	Reporter *Reporter

	// Workers bounds the per-family fan-out.
	Workers int
}

// Pipeline runs the extract, identify, transform, load and report stages for
// one source. Families are independent units: each is transformed and loaded
// on its own, and a failure in one never blocks its siblings.
type Pipeline struct {
	source      driven.FamilySource
	transformer driven.Transformer
	store       driven.DocumentStore
	cache       driven.ObjectStore
	cachePrefix string
	reporter    *Reporter
	workers     int
}

// NewPipeline creates a pipeline from its dependencies.
func NewPipeline(params PipelineParams) (*Pipeline, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("%w: pipeline requires a family source", domain.ErrInvalidInput)
	}
	if params.Transformer == nil {
		return nil, fmt.Errorf("%w: pipeline requires a transformer", domain.ErrInvalidInput)
	}
	if params.Store == nil {
		return nil, fmt.Errorf("%w: pipeline requires a document store", domain.ErrInvalidInput)
	}
	workers := params.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pipeline{
		source:      params.Source,
		transformer: params.Transformer,
		store:       params.Store,
		cache:       params.Cache,
		cachePrefix: params.CachePrefix,
		reporter:    params.Reporter,
		workers:     workers,
	}, nil
}

// Run executes one pipeline run. Extraction failures stop pagination but
// keep the pages already fetched; per-family failures are recorded and the
// rest of the batch proceeds. The returned report is always populated.
func (p *Pipeline) Run(ctx context.Context) (driving.RunReport, error) {
	run := domain.RunContext{
		TaskRunID: uuid.NewString(),
		FlowRunID: uuid.NewString(),
	}
	report := driving.RunReport{Run: run}

	logger.Info("pipeline run %s starting", run.FlowRunID)

	result := p.source.FetchAllFamilies(ctx, run)
	report.PagesFetched = len(result.Envelopes)
	report.PageFailure = result.Failure
	if result.Failure != nil {
		logger.Warn("pagination stopped at page %d: %s", result.Failure.Page, result.Failure.Err)
	}

	var families []domain.Identified[domain.UpstreamFamily]
	for _, envelope := range result.Envelopes {
		families = append(families, IdentifyFamilies(envelope)...)
	}
	logger.Debug("identified %d families across %d pages", len(families), report.PagesFetched)

	pool, err := ants.NewPool(p.workers)
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, family := range families {
		family := family
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			ids, failure := p.processFamily(ctx, family)
			mu.Lock()
			report.ProcessedIDs = append(report.ProcessedIDs, ids...)
			if failure != nil {
				report.FamilyFailures = append(report.FamilyFailures, *failure)
			}
			mu.Unlock()
		}); err != nil {
			wg.Done()
			mu.Lock()
			report.FamilyFailures = append(report.FamilyFailures, driving.FamilyFailure{
				ImportID: family.ID,
				Stage:    stageTransform,
				Err:      err.Error(),
			})
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Strings(report.ProcessedIDs)
	sort.Slice(report.FamilyFailures, func(i, j int) bool {
		return report.FamilyFailures[i].ImportID < report.FamilyFailures[j].ImportID
	})

	if p.reporter != nil {
		if err := p.reporter.Upload(ctx, report.ProcessedIDs, run.FlowRunID); err != nil {
			logger.Warn("run report upload failed: %v", err)
		}
	}

	logger.Info("pipeline run %s finished: %d documents, %d family failures",
		run.FlowRunID, len(report.ProcessedIDs), len(report.FamilyFailures))
	return report, nil
}

// processFamily transforms and loads one family as a single unit. The
// returned failure, if any, names the stage that failed; ids already loaded
// are returned regardless.
func (p *Pipeline) processFamily(ctx context.Context, family domain.Identified[domain.UpstreamFamily]) ([]string, *driving.FamilyFailure) {
	docs, err := p.transformer.Transform(family)
	if err != nil {
		return nil, &driving.FamilyFailure{
			ImportID: family.ID,
			Stage:    stageTransform,
			Err:      err.Error(),
		}
	}

	ids, err := p.store.UpsertBatch(ctx, docs)
	if err != nil {
		return nil, &driving.FamilyFailure{
			ImportID: family.ID,
			Stage:    stageLoad,
			Err:      err.Error(),
		}
	}

	if p.cache != nil {
		if err := p.cacheDocuments(ctx, docs); err != nil {
			return ids, &driving.FamilyFailure{
				ImportID: family.ID,
				Stage:    stageCache,
				Err:      err.Error(),
			}
		}
	}
	return ids, nil
}

// cacheDocuments writes each transformed document to the object cache.
func (p *Pipeline) cacheDocuments(ctx context.Context, docs []domain.Document) error {
	for _, doc := range docs {
		body, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", doc.ID, err)
		}
		key := p.cachePrefix + doc.ID + ".json"
		if err := p.cache.Put(ctx, key, body, "application/json"); err != nil {
			return fmt.Errorf("cache document %s: %w", doc.ID, err)
		}
	}
	return nil
}
