// Package timeout holds the per-route deadline table and the wrapper that races
// an operation against it.
package timeout

import (
	"fmt"
	"strings"
	"time"
)

// Duration buckets. Every route resolves to exactly one of these.
const (
	Light         = 3 * time.Minute
	Moderate      = 5 * time.Minute
	ModerateHeavy = 7 * time.Minute
	Heavy         = 10 * time.Minute

	MinDuration = 2 * time.Minute
	MaxDuration = 10 * time.Minute

	wildcard = "*"
)

// Entry maps a dotted route key, or a prefix ending in "*", to a bucket.
type Entry struct {
	Key      string
	Duration time.Duration
}

// Policy is an immutable route -> duration table.
type Policy struct {
	exact     map[string]time.Duration
	wildcards []Entry
	entries   []Entry
}

// NewPolicy builds a table from entries. Wildcard entries are matched in the
// order given, so put narrower prefixes first. An exact key may appear once.
func NewPolicy(entries ...Entry) (*Policy, error) {
	p := &Policy{
		exact:   make(map[string]time.Duration, len(entries)),
		entries: make([]Entry, 0, len(entries)),
	}

	for _, e := range entries {
		if e.Duration < MinDuration || e.Duration > MaxDuration {
			return nil, fmt.Errorf("route %q: duration %s outside [%s, %s]", e.Key, e.Duration, MinDuration, MaxDuration)
		}

		p.entries = append(p.entries, e)

		if strings.HasSuffix(e.Key, wildcard) {
			p.wildcards = append(p.wildcards, e)
			continue
		}
		if _, exists := p.exact[e.Key]; exists {
			return nil, fmt.Errorf("route %q: duplicate entry", e.Key)
		}
		p.exact[e.Key] = e.Duration
	}

	return p, nil
}

// MustPolicy is NewPolicy for tables fixed at compile time; it panics on error.
func MustPolicy(entries ...Entry) *Policy {
	p, err := NewPolicy(entries...)
	if err != nil {
		panic(err)
	}
	return p
}

// DurationFor resolves routeKey: exact match first, then the first wildcard
// whose prefix matches, then Moderate.
func (p *Policy) DurationFor(routeKey string) time.Duration {
	if d, ok := p.exact[routeKey]; ok {
		return d
	}

	for _, e := range p.wildcards {
		if strings.HasPrefix(routeKey, strings.TrimSuffix(e.Key, wildcard)) {
			return e.Duration
		}
	}

	return Moderate
}

// Entries returns a copy of the table in insertion order.
func (p *Policy) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

var defaultPolicy = MustPolicy(
	Entry{"analytics.getOverviewAnalytics", Heavy},
	Entry{"products.list", Heavy},
	Entry{"comments.list", Heavy},
	Entry{"products.getBySlug", Heavy},

	Entry{"reviews.list", ModerateHeavy},
	Entry{"products.syncOrganizationMetadata", ModerateHeavy},

	Entry{"reviews.create", Moderate},
	Entry{"reviews.update", Moderate},
	Entry{"reviews.delete", Moderate},
	Entry{"comments.create", Moderate},
	Entry{"comments.update", Moderate},
	Entry{"comments.delete", Moderate},
	Entry{"comments.toggleLike", Moderate},
	Entry{"products.create", Moderate},
	Entry{"products.update", Moderate},
	Entry{"products.follow", Moderate},
	Entry{"products.unfollow", Moderate},
	Entry{"products.toggleImpression", Moderate},

	Entry{"healthCheck", Light},
	Entry{"reports.create", Light},
	Entry{"updateUserImage", Light},
	Entry{"privateData", Light},
)

// Default returns the process-wide route table.
func Default() *Policy {
	return defaultPolicy
}

// DurationFor looks routeKey up in the default table.
func DurationFor(routeKey string) time.Duration {
	return defaultPolicy.DurationFor(routeKey)
}
