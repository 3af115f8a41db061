package crawler

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
)

// ErrInvalidSeed is returned by NewPicker when the seed is not an absolute URL.
var ErrInvalidSeed = errors.New("seed must be an absolute URL")

// Picker chooses the next crawl target for a single worker.
// It is not safe for concurrent use; the sets it shares are.
type Picker struct {
	seed    *url.URL
	raw     string
	filters *FilterSet
	visited *VisitedSet
	rng     *rand.Rand
}

// NewPicker creates a Picker that resolves links against seed.
// A nil rng is replaced by one seeded from the runtime's random source.
func NewPicker(seed string, filters *FilterSet, visited *VisitedSet, rng *rand.Rand) (*Picker, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
	}
	if filters == nil {
		filters = NewFilterSet(nil)
	}
	if visited == nil {
		visited = NewVisitedSet()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // link choice, not security
	}

	return &Picker{
		seed:    u,
		raw:     seed,
		filters: filters,
		visited: visited,
		rng:     rng,
	}, nil
}

// Seed returns the seed URL as given to NewPicker.
func (p *Picker) Seed() string {
	return p.raw
}

// PickNext returns the next target chosen from the links in body.
//
// Links containing a filter entry are discarded. If nothing remains, or the
// chosen link cannot be parsed, the seed is returned. Otherwise one link is
// chosen uniformly at random, resolved against the seed, recorded in the
// visited set and returned.
func (p *Picker) PickNext(body []byte) string {
	candidates := p.filters.Allowed(ExtractLinks(body))
	if len(candidates) == 0 {
		return p.raw
	}

	choice := candidates[p.rng.IntN(len(candidates))]
	ref, err := url.Parse(choice)
	if err != nil {
		return p.raw
	}

	next := p.seed.ResolveReference(ref).String()
	p.visited.Add(next)
	return next
}
