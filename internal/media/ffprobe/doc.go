// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams, chapters, and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Chapter: a chapter marker as stored in the container
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes a captured ffprobe JSON payload
//
// Helper methods on Result provide stream counts, chapter lookups, and
// duration parsing used by the chapter workflow for pre-flight warnings and
// post-mux verification.
package ffprobe
