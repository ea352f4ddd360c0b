// Package corpusapi implements the paginated connector for the upstream
// Corpus API. It fetches pages of family records (and single families or
// documents), wraps each unit in a provenance envelope, and accumulates
// page-level failures without aborting the run.
package corpusapi
