// Package workflow runs one chaptermux job end to end.
//
// A Runner takes a Request naming a video and any combination of chapter
// list, subtitle file, and thumbnail, then moves through fixed stages:
// validate, lock, chapters, apply, verify, finalize, and cleanup. Each stage
// is stamped on the context so log lines carry the run ID and the stage name.
//
// The chapters stage extracts the video's existing ffmetadata document,
// appends the converted chapter blocks, and optionally warns about chapters
// that start after the probed duration. The apply stage stream-copies the
// video with every attachment into a suffixed sibling file. Finalize renames
// or deletes the original and, for in-place runs, moves the updated file
// back to the original name. The metadata document is always removed.
//
// Runs on the same video are serialized with an advisory lock file so two
// processes never share the metadata document or the output path.
package workflow
