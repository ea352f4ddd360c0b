package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/policyatlas/atlas-cli/internal/core/domain"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a single upstream record",
	Long: `Fetches one family or document record from the upstream API by
import id and prints its envelope as JSON. Useful for inspecting upstream
payloads without running the pipeline.`,
}

var fetchFamilyCmd = &cobra.Command{
	Use:   "family <import-id>",
	Short: "Fetch a single family record",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetchFamily,
}

var fetchDocumentCmd = &cobra.Command{
	Use:   "document <import-id>",
	Short: "Fetch a single document record",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetchDocument,
}

func init() {
	fetchCmd.AddCommand(fetchFamilyCmd)
	fetchCmd.AddCommand(fetchDocumentCmd)
	rootCmd.AddCommand(fetchCmd)
}

// fetchRunContext builds a run context for ad hoc single fetches.
func fetchRunContext() domain.RunContext {
	return domain.RunContext{
		TaskRunID: uuid.NewString(),
		FlowRunID: uuid.NewString(),
	}
}

func runFetchFamily(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	connector, err := newConnector(ctx, nil)
	if err != nil {
		return fmt.Errorf("creating connector: %w", err)
	}
	defer connector.Close()

	envelope, err := connector.FetchFamily(ctx, args[0], fetchRunContext())
	if err != nil {
		return err
	}
	return printJSON(cmd, envelope)
}

func runFetchDocument(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	connector, err := newConnector(ctx, nil)
	if err != nil {
		return fmt.Errorf("creating connector: %w", err)
	}
	defer connector.Close()

	envelope, err := connector.FetchDocument(ctx, args[0], fetchRunContext())
	if err != nil {
		return err
	}
	return printJSON(cmd, envelope)
}

// printJSON prints a value as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	cmd.Println(string(out))
	return nil
}
