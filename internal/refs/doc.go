// Package refs provides transient, revocable URLs for in-memory media
// buffers, used for input previews and for handing converted output to the
// delivery step.
package refs
