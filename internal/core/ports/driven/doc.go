// Package driven defines the outbound ports of the pipeline: interfaces the
// core depends on, implemented by adapters (connectors, storage, object
// stores, auth).
package driven
