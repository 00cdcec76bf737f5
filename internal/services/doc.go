// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and track paths for logging.
//   - Structured error markers plus the Wrap helper that classify per-file
//     failures into the outcome reported at the end of a run.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
