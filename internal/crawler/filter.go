package crawler

import (
	"slices"
	"strings"
	"sync"
)

// DefaultFilters returns the static filter entries applied to every run.
//
// "http" rejects absolute links (other hosts), "static/", "cdn/" and
// "googleapis" reject asset locations, and "." rejects anything that looks
// like a file name or host name.
func DefaultFilters() []string {
	return []string{"http", "static/", "cdn/", "googleapis", "."}
}

// FilterSet is an append-only ordered list of substrings.
// A link is rejected when it contains any entry.
type FilterSet struct {
	mu      sync.RWMutex
	entries []string
}

// NewFilterSet creates a FilterSet seeded with the given entries.
// Empty entries are skipped.
func NewFilterSet(entries []string) *FilterSet {
	fs := &FilterSet{
		entries: make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if e != "" {
			fs.entries = append(fs.entries, e)
		}
	}
	return fs
}

// Add appends an entry and reports whether it was added.
// The empty string is ignored since it would match every link.
// Duplicates are kept.
func (fs *FilterSet) Add(entry string) bool {
	if entry == "" {
		return false
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.entries = append(fs.entries, entry)
	return true
}

// Matches reports whether link contains any entry.
func (fs *FilterSet) Matches(link string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for _, e := range fs.entries {
		if strings.Contains(link, e) {
			return true
		}
	}
	return false
}

// Allowed returns the links that match no entry, preserving order.
func (fs *FilterSet) Allowed(links []string) []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	allowed := make([]string, 0, len(links))
	for _, link := range links {
		rejected := false
		for _, e := range fs.entries {
			if strings.Contains(link, e) {
				rejected = true
				break
			}
		}
		if !rejected {
			allowed = append(allowed, link)
		}
	}
	return allowed
}

// Entries returns a copy of the entries in insertion order.
func (fs *FilterSet) Entries() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return slices.Clone(fs.entries)
}

// Len returns the number of entries.
func (fs *FilterSet) Len() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.entries)
}
