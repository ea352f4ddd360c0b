// Command atlas pulls policy document families from the upstream corpus API
// into a local document graph.
package main

import (
	"fmt"
	"os"

	"github.com/policyatlas/atlas-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
