// Package media loads user-selected source files into memory and decides
// whether they look like video.
//
// Open is the file-selection boundary: it turns a path into an Input holding
// the bytes, the display name shown to the user, and the sniffed MIME type.
// Media type detection uses content sniffing rather than the file extension,
// so a renamed .txt file is rejected even when it is called clip.mp4.
package media
