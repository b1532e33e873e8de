// Command clipforge converts a local video into an animated GIF or an MP3
// audio track using ffmpeg.
//
//	clipforge convert clip.mov --kind gif --start 5 --time 8
//	clipforge shell
//
// Run "clipforge config init" to write a sample configuration file.
package main
