package refs

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Scheme prefixes every URL the registry hands out.
const Scheme = "blob:clipforge/"

// Blob is a typed byte buffer addressable through a transient URL.
type Blob struct {
	Data     []byte
	MIMEType string
}

// Registry hands out transient URLs for in-memory buffers. A URL stays
// resolvable until it is revoked; revoking releases the buffer.
type Registry struct {
	mu    sync.Mutex
	blobs map[string]Blob
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{blobs: make(map[string]Blob)}
}

// Create registers data under a fresh URL.
func (r *Registry) Create(data []byte, mimeType string) string {
	url := Scheme + uuid.NewString()
	r.mu.Lock()
	r.blobs[url] = Blob{Data: data, MIMEType: strings.TrimSpace(mimeType)}
	r.mu.Unlock()
	return url
}

// Resolve returns the blob registered under url.
func (r *Registry) Resolve(url string) (Blob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	blob, ok := r.blobs[url]
	return blob, ok
}

// Revoke releases url. It reports whether the URL was live.
func (r *Registry) Revoke(url string) bool {
	if url == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.blobs[url]; !ok {
		return false
	}
	delete(r.blobs, url)
	return true
}

// Len reports the number of live URLs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.blobs)
}
