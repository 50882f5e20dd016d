package downloader

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNoDownloader signals that no registered downloader accepts the URL.
var ErrNoDownloader = errors.New("no downloader available")

// Registry holds downloaders in registration order. Resolution walks the
// list and returns the first downloader whose CanHandle accepts the URL, so
// earlier registrations win when sources overlap. There is no fallback
// downloader.
type Registry struct {
	mu          sync.RWMutex
	downloaders []Downloader
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends the downloader. Registering a second downloader with the
// same name is rejected to keep resolution unambiguous.
func (r *Registry) Register(d Downloader) error {
	if d == nil {
		return fmt.Errorf("register: downloader required")
	}
	if d.Name() == "" {
		return fmt.Errorf("register: downloader name required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.downloaders {
		if existing.Name() == d.Name() {
			return fmt.Errorf("register: downloader %q already registered", d.Name())
		}
	}
	r.downloaders = append(r.downloaders, d)
	return nil
}

// Resolve returns the first registered downloader that accepts the URL. The
// returned error wraps ErrNoDownloader when none does.
func (r *Registry) Resolve(url string) (Downloader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.downloaders {
		if d.CanHandle(url) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w for %s", ErrNoDownloader, url)
}

// Names lists the registered downloaders in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.downloaders))
	for _, d := range r.downloaders {
		names = append(names, d.Name())
	}
	return names
}

// Len reports how many downloaders are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.downloaders)
}
