// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The inspect command uses it to show what a source file contains before a
// conversion: container duration, the first video stream's resolution and
// frame rate, and whether an audio track exists to extract.
package ffprobe
