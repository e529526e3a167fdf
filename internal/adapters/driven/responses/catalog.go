// Package responses provides the canned replies for conversational turns.
package responses

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
)

// Ensure Catalog implements the interface.
var _ driven.ResponseCatalog = (*Catalog)(nil)

// greetingToken is replaced with the time-of-day greeting.
const greetingToken = "{saludo}"

// Catalog picks one variant per category. Selection is random unless the
// catalog was created with a seed.
type Catalog struct {
	mu       sync.Mutex
	rng      *rand.Rand
	variants map[string][]string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSeed makes variant selection deterministic.
func WithSeed(seed uint64) Option {
	return func(c *Catalog) {
		c.rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // not security sensitive
	}
}

// WithVariants replaces the variants of one category. Empty lists are ignored.
func WithVariants(category string, variants ...string) Option {
	return func(c *Catalog) {
		if len(variants) > 0 {
			c.variants[category] = variants
		}
	}
}

// New creates a catalog with the built-in Spanish replies.
func New(opts ...Option) *Catalog {
	c := &Catalog{variants: make(map[string][]string, len(defaultVariants))}
	for category, variants := range defaultVariants {
		c.variants[category] = variants
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reply returns one variant for category, or "" if the category is unknown.
func (c *Catalog) Reply(category string, now time.Time) string {
	variants := c.variants[category]
	if len(variants) == 0 {
		return ""
	}
	text := variants[c.pick(len(variants))]
	return strings.ReplaceAll(text, greetingToken, TimeGreeting(now))
}

// Categories lists the categories with at least one variant.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.variants))
	for category := range c.variants {
		out = append(out, category)
	}
	return out
}

func (c *Catalog) pick(n int) int {
	if n == 1 {
		return 0
	}
	if c.rng == nil {
		return rand.IntN(n) //nolint:gosec // not security sensitive
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rng.IntN(n)
}

// TimeGreeting returns the Spanish greeting for the hour of now:
// mornings from 5 to 11, afternoons until 19, nights otherwise.
func TimeGreeting(now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 5 && hour < 12:
		return "Buenos días"
	case hour >= 12 && hour < 20:
		return "Buenas tardes"
	default:
		return "Buenas noches"
	}
}

var defaultVariants = map[string][]string{
	domain.ReplyGreeting.String():      greetingReplies,
	domain.ReplyFarewell.String():      farewellReplies,
	domain.ReplyGratitude.String():     gratitudeReplies,
	domain.ReplyHelp.String():          helpReplies,
	domain.ReplySmalltalk.String():     smalltalkReplies,
	domain.ReplySatisfied.String():     satisfiedReplies,
	domain.ReplyClarification.String(): clarificationReplies,
	domain.ReplyNoResults.String():     {noResultsReply},
	domain.ReplyOutOfScope.String():    {outOfScopeReply},
}
