// Package memory provides in-memory implementations of the document,
// checkpoint and object store ports. State lives for the process lifetime
// only; the package exists for tests and dry runs.
package memory
