// Package ffmpeg builds and runs the ffmpeg invocations chaptermux needs.
//
// Commands are assembled as discrete argument lists (Args) and executed
// without a shell, so paths containing spaces or quotes reach ffmpeg intact.
// Two invocations exist: ExtractMetadataArgs dumps a video's global metadata
// to an ffmetadata document, and BuildApplyArgs stream-copies the video while
// attaching the chapter document, a subtitle track, and a cover image.
//
// Client executes both through an injectable CommandRunner so tests never
// spawn real processes.
package ffmpeg
