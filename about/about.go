// Package about holds build and version information for agentsync.
package about

// Version is set at build time via -ldflags.
var Version = "0.1.0"
