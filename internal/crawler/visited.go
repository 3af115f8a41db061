package crawler

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// VisitedSet records the distinct URLs reached by crawling.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet creates an empty VisitedSet.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{
		urls: make(map[string]struct{}),
	}
}

// Add records a URL and reports whether it was not seen before.
func (v *VisitedSet) Add(rawURL string) bool {
	key := normalizeURL(rawURL)

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.urls[key]; ok {
		return false
	}
	v.urls[key] = struct{}{}
	return true
}

// Contains reports whether a URL has been recorded.
func (v *VisitedSet) Contains(rawURL string) bool {
	key := normalizeURL(rawURL)

	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.urls[key]
	return ok
}

// Len returns the number of distinct URLs.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

// URLs returns the recorded URLs in lexical order.
func (v *VisitedSet) URLs() []string {
	v.mu.Lock()
	out := make([]string, 0, len(v.urls))
	for u := range v.urls {
		out = append(out, u)
	}
	v.mu.Unlock()

	sort.Strings(out)
	return out
}

// normalizeURL maps equivalent spellings of a URL to one key.
// The fragment is dropped and scheme and host are lowercased.
func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" && u.Host != "" {
		u.Path = "/"
	}
	return u.String()
}
