// Package domain contains the core types for the pipeline: upstream records
// as fetched from the Corpus API, provenance envelopes, and the transformed
// document graph loaded downstream.
//
// Domain types have no dependencies on adapters or external services.
package domain
