// Package services defines shared utilities consumed by the pipeline
// components and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, variants, and routes for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration, placement, missing assets, rewrite service).
//
// Subpackages hold the text-generation clients used by the rewriter.
package services
