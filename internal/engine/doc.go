// Package engine wraps the ffmpeg binary that performs conversions.
//
// An FFmpeg handle owns a workspace directory; file names passed to it are
// flat names inside that directory. The handle is created once per process,
// initialized once, and guarded by a file lock so two clipforge processes
// never share a workspace.
package engine
