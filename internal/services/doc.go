// Package services defines shared utilities consumed by the workflow and the
// external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (parse, format, io, validation, external tool) and map them to exit
//     codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across a run.
package services
