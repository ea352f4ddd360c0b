// Package s3 provides an S3-backed implementation of the object store and
// checkpoint store ports, used for the transformed-document cache, for
// out-of-band run reports and for resumable pagination cursors.
//
// Credentials come from the standard AWS chain (environment, shared config,
// instance role). A custom endpoint with path-style addressing supports
// S3-compatible stores such as MinIO.
package s3
