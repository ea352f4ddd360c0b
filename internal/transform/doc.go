// Package transform converts one identified upstream family record into a
// normalized graph of documents connected by membership and versioning
// edges, with classification labels derived from a small rule table.
//
// The transform is a pure function of its input: identical input always
// yields structurally identical output, which makes snapshot testing of the
// graph reliable.
package transform
