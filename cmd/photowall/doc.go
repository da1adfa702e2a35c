// Package main hosts the photowall CLI entrypoint and command graph.
//
// The Cobra command tree plays the part of the interactive surface: it loads
// the TOML configuration, applies flag overrides, reads images from disk into
// an import session and routes exported pages into the output directory. The
// pipeline itself lives in the internal packages; commands here only wire
// collaborators together and present results.
package main
