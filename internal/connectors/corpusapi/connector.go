package corpusapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
	"github.com/policyatlas/atlas-cli/internal/logger"
)

// Source names stamped on envelopes.
const (
	SourceFamily   = "corpus_family"
	SourceDocument = "corpus_document"
)

// ConnectorVersion is stamped on every envelope this connector produces.
const ConnectorVersion = "1.0.0"

// contentTypeJSON is the content type of every Corpus API payload.
const contentTypeJSON = "application/json"

// Ensure Connector implements the interface.
var _ driven.FamilySource = (*Connector)(nil)

// Connector fetches family and document records from the Corpus API.
type Connector struct {
	config      *Config
	client      *Client
	checkpoints driven.CheckpointStore
	mu          sync.Mutex
	closed      bool
}

// New creates a new Corpus API connector. Configuration problems (bad base
// URL, out-of-range values) surface here, never during iteration. The
// checkpoint store is optional; without one, runs always start from the
// configured initial page.
func New(cfg *Config, tokenProvider driven.TokenProvider, checkpoints driven.CheckpointStore) (*Connector, error) {
	client, err := NewClient(cfg, tokenProvider)
	if err != nil {
		return nil, err
	}
	return &Connector{
		config:      cfg,
		client:      client,
		checkpoints: checkpoints,
	}, nil
}

// dataPayload is the standard response shape of every Corpus API endpoint.
type dataPayload struct {
	Data json.RawMessage `json:"data"`
}

// FetchAllFamilies pages through the families endpoint sequentially,
// producing one envelope per page. An empty page is the only normal
// termination. On any page error, pagination stops, envelopes collected so
// far are kept, and the failure is recorded on the result; the caller never
// sees an error return for page-level problems.
func (c *Connector) FetchAllFamilies(ctx context.Context, run domain.RunContext) domain.FetchResult {
	result := domain.FetchResult{}

	if err := c.checkClosed(); err != nil {
		result.Failure = c.pageFailure(c.config.InitialPage, err, run)
		return result
	}

	page := c.resumePage(ctx, run)
	fetched := 0

	for {
		select {
		case <-ctx.Done():
			// Cancellation stops new page fetches but keeps what we have.
			result.Failure = c.pageFailure(page, ctx.Err(), run)
			return result
		default:
		}

		logger.Info("fetching families page %d", page)

		envelope, families, err := c.fetchFamiliesPage(ctx, page, run)
		if err != nil {
			logger.Error("page %d fetch failed: %v", page, err)
			result.Failure = c.pageFailure(page, err, run)
			return result
		}

		if len(families) == 0 {
			logger.Info("no more families at page %d, %d pages fetched", page, len(result.Envelopes))
			break
		}

		result.Envelopes = append(result.Envelopes, envelope)
		fetched++
		page++

		c.storeCheckpoint(ctx, run, page)

		if c.config.MaxPages > 0 && fetched >= c.config.MaxPages {
			logger.Info("page limit %d reached", c.config.MaxPages)
			break
		}
	}

	return result
}

// fetchFamiliesPage fetches and validates one page of family records.
func (c *Connector) fetchFamiliesPage(
	ctx context.Context, page int, run domain.RunContext,
) (domain.Envelope[[]domain.UpstreamFamily], []domain.UpstreamFamily, error) {
	var envelope domain.Envelope[[]domain.UpstreamFamily]

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(c.config.PageSize))

	var payload dataPayload
	endpoint, status, err := c.client.GetJSON(ctx, "families", query, &payload)
	if err != nil {
		return envelope, nil, err
	}

	var families []domain.UpstreamFamily
	if len(payload.Data) > 0 {
		if err := json.Unmarshal(payload.Data, &families); err != nil {
			return envelope, nil, fmt.Errorf("malformed families page: %w", err)
		}
	}
	if len(families) == 0 {
		return envelope, nil, nil
	}

	envelope = domain.Envelope[[]domain.UpstreamFamily]{
		ID:               uuid.New(),
		Data:             families,
		RawPayload:       payload.Data,
		SourceName:       SourceFamily,
		SourceRecordID:   fmt.Sprintf("%s-families-page-%d", run.TaskRunID, page),
		ContentType:      contentTypeJSON,
		ConnectorVersion: ConnectorVersion,
		ExtractedAt:      time.Now().UTC(),
		Metadata: domain.ExtractedMetadata{
			Endpoint:   endpoint,
			HTTPStatus: status,
		},
		Run: run,
	}
	return envelope, families, nil
}

// FetchFamily fetches a single family record by import id.
func (c *Connector) FetchFamily(
	ctx context.Context, importID string, run domain.RunContext,
) (domain.Envelope[domain.UpstreamFamily], error) {
	var envelope domain.Envelope[domain.UpstreamFamily]

	if err := c.checkClosed(); err != nil {
		return envelope, err
	}

	var payload dataPayload
	endpoint, status, err := c.client.GetJSON(ctx, "families/"+importID, nil, &payload)
	if err != nil {
		return envelope, fmt.Errorf("fetch family %s: %w", importID, err)
	}
	if isEmptyData(payload.Data) {
		return envelope, fmt.Errorf("%w: family %s", ErrEmptyData, importID)
	}

	var family domain.UpstreamFamily
	if err := json.Unmarshal(payload.Data, &family); err != nil {
		return envelope, fmt.Errorf("malformed family %s: %w", importID, err)
	}

	logger.Info("fetched family %s", importID)

	envelope = domain.Envelope[domain.UpstreamFamily]{
		ID:               uuid.New(),
		Data:             family,
		RawPayload:       payload.Data,
		SourceName:       SourceFamily,
		SourceRecordID:   importID,
		ContentType:      contentTypeJSON,
		ConnectorVersion: ConnectorVersion,
		ExtractedAt:      time.Now().UTC(),
		Metadata: domain.ExtractedMetadata{
			Endpoint:   endpoint,
			HTTPStatus: status,
		},
		Run: run,
	}
	return envelope, nil
}

// FetchDocument fetches a single document record by import id.
func (c *Connector) FetchDocument(
	ctx context.Context, importID string, run domain.RunContext,
) (domain.Envelope[domain.UpstreamDocument], error) {
	var envelope domain.Envelope[domain.UpstreamDocument]

	if err := c.checkClosed(); err != nil {
		return envelope, err
	}

	var payload dataPayload
	endpoint, status, err := c.client.GetJSON(ctx, "families/documents/"+importID, nil, &payload)
	if err != nil {
		return envelope, fmt.Errorf("fetch document %s: %w", importID, err)
	}
	if isEmptyData(payload.Data) {
		return envelope, fmt.Errorf("%w: document %s", ErrEmptyData, importID)
	}

	var document domain.UpstreamDocument
	if err := json.Unmarshal(payload.Data, &document); err != nil {
		return envelope, fmt.Errorf("malformed document %s: %w", importID, err)
	}

	logger.Info("fetched document %s", importID)

	envelope = domain.Envelope[domain.UpstreamDocument]{
		ID:               uuid.New(),
		Data:             document,
		RawPayload:       payload.Data,
		SourceName:       SourceDocument,
		SourceRecordID:   importID,
		ContentType:      contentTypeJSON,
		ConnectorVersion: ConnectorVersion,
		ExtractedAt:      time.Now().UTC(),
		Metadata: domain.ExtractedMetadata{
			Endpoint:   endpoint,
			HTTPStatus: status,
		},
		Run: run,
	}
	return envelope, nil
}

// Close releases resources. Further calls return domain.ErrConnectorClosed.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

// resumePage returns the page to start from, consulting the checkpoint
// store when one is configured.
func (c *Connector) resumePage(ctx context.Context, run domain.RunContext) int {
	if c.checkpoints == nil {
		return c.config.InitialPage
	}

	raw, ok, err := c.checkpoints.Load(ctx, c.checkpointKey(run))
	if err != nil {
		logger.Warn("checkpoint load failed, starting from page %d: %v", c.config.InitialPage, err)
		return c.config.InitialPage
	}
	if !ok {
		return c.config.InitialPage
	}

	cursor, err := DecodeCursor(raw)
	if err != nil || cursor == nil {
		logger.Warn("discarding invalid checkpoint cursor: %v", err)
		return c.config.InitialPage
	}

	logger.Info("resuming from checkpointed page %d", cursor.NextPage)
	return cursor.NextPage
}

// storeCheckpoint persists the next page to fetch. Best effort: a checkpoint
// write failure degrades resumability, not the run.
func (c *Connector) storeCheckpoint(ctx context.Context, run domain.RunContext, nextPage int) {
	if c.checkpoints == nil {
		return
	}
	cursor := NewCursor(nextPage)
	if err := c.checkpoints.Store(ctx, c.checkpointKey(run), cursor.Encode()); err != nil {
		logger.Warn("checkpoint store failed at page %d: %v", nextPage, err)
	}
}

// checkpointKey derives the checkpoint key for a run.
func (c *Connector) checkpointKey(run domain.RunContext) string {
	return c.config.CheckpointKeyPrefix + run.FlowRunID
}

// pageFailure builds the delimited failure value for a page.
func (c *Connector) pageFailure(page int, err error, run domain.RunContext) *domain.PageFetchFailure {
	return &domain.PageFetchFailure{
		Page:      page,
		Err:       err.Error(),
		TaskRunID: run.TaskRunID,
	}
}

// checkClosed returns domain.ErrConnectorClosed after Close.
func (c *Connector) checkClosed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return domain.ErrConnectorClosed
	}
	return nil
}

// isEmptyData reports whether a data field is absent or JSON null.
func isEmptyData(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
