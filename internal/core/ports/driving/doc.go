// Package driving defines the inbound ports of the pipeline: interfaces the
// CLI drives the core through.
package driving
