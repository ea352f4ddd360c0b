// Package services contains the pipeline's application logic: the identify
// step, the run orchestrator, and the run reporter. Services depend only on
// domain types and ports; adapters are injected.
package services
