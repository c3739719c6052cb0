// Package preflight provides readiness checks for the files, directories,
// and external tools a chaptermux run depends on.
//
// These checks run in two contexts:
//   - The workflow runner calls CheckInputs before touching any file so a
//     missing chapter list fails before ffmpeg extracts metadata.
//   - The CLI "chaptermux status" command uses RunAll to display tool and
//     directory health.
package preflight
