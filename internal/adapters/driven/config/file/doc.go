// Package file loads the pipeline configuration from a TOML file. Missing
// fields fall back to defaults, so a minimal file only needs the upstream
// base URL.
package file
