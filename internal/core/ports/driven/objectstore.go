package driven

import "context"

// ObjectStore writes opaque objects to a bucket-style store. Used for the
// document cache and for out-of-band run reports.
type ObjectStore interface {
	// Put writes body under key with the given content type, replacing any
	// existing object.
	Put(ctx context.Context, key string, body []byte, contentType string) error
}
