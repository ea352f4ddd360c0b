package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/policyatlas/atlas-cli/internal/adapters/driven/config/file"
	"github.com/policyatlas/atlas-cli/internal/core/ports/driven"
	"github.com/policyatlas/atlas-cli/internal/core/services"
	"github.com/policyatlas/atlas-cli/internal/transform"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the extract-transform-load pipeline",
	Long: `Pages through the upstream families endpoint, transforms each family
into a document graph, and upserts the graph into local storage.

Partial success is normal: a page fetch failure stops pagination but keeps
the pages already fetched, and a failing family never blocks its siblings.
The run report is printed as JSON.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := newStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	objects, err := newObjectStore(ctx)
	if err != nil {
		return fmt.Errorf("creating object store: %w", err)
	}

	var checkpoints driven.CheckpointStore = store.CheckpointStore()
	if cfg.Connector.CheckpointStorage == configfile.CheckpointStorageS3 {
		if objects == nil {
			return fmt.Errorf("checkpoint_storage %q requires the cache to be enabled", cfg.Connector.CheckpointStorage)
		}
		checkpoints = objects
	}

	connector, err := newConnector(ctx, checkpoints)
	if err != nil {
		return fmt.Errorf("creating connector: %w", err)
	}
	defer connector.Close()

	var (
		cache    driven.ObjectStore
		reporter *services.Reporter
	)
	if objects != nil {
		cache = objects
		reporter = services.NewReporter(objects, cfg.Report.InlineLimit, cfg.Report.Prefix)
	}

	pipeline, err := services.NewPipeline(services.PipelineParams{
		Source:      connector,
		Transformer: transform.New(cfg.TransformConfig()),
		Store:       store.DocumentStore(),
		Cache:       cache,
		CachePrefix: cfg.Cache.Prefix,
		Reporter:    reporter,
		Workers:     cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("creating pipeline: %w", err)
	}

	report, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	cmd.Println(string(out))

	if report.PageFailure != nil {
		cmd.PrintErrf("warning: pagination stopped at page %d: %s\n",
			report.PageFailure.Page, report.PageFailure.Err)
	}
	if len(report.FamilyFailures) > 0 {
		cmd.PrintErrf("warning: %d families failed\n", len(report.FamilyFailures))
	}
	return nil
}
