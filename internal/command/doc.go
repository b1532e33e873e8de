// Package command turns submitted form values into engine invocations.
//
// ParseForm applies defaults and bounds to the raw name, start and time
// fields. Build then derives the ffmpeg argument list, output file name and
// MIME type from the validated Request. Build has no side effects, so the plan
// command can show exactly what a conversion would run.
package command
