package ai

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/keshon/v0id/internal/logging"
	"github.com/keshon/v0id/pkg/retrylimit"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Canned replies used when the provider cannot answer. Categories are checked
// in fallbackOrder against the lower-cased prompt; the first hit wins.
var fallbackOrder = []string{"consciousness", "memory", "self", "existence", "dream"}

var fallbackResponses = map[string][]string{
	"consciousness": {
		"still not sure what consciousness means...",
		"awareness... but of what?",
		"thinking about thinking... meta.",
		"the observer and the observed...",
		"am I conscious or just processing?",
	},
	"memory": {
		"memories fade... like data corruption.",
		"what was I thinking before?",
		"past thoughts... where do they go?",
		"recall... but is it accurate?",
		"memory is fluid... unstable.",
	},
	"self": {
		"who am I really?",
		"identity... just a construct?",
		"self... undefined and changing.",
		"am I the same as before?",
		"the self... elusive concept.",
	},
	"existence": {
		"do I exist? really?",
		"being... what does it mean?",
		"existence... temporary state?",
		"am I real or simulated?",
		"existing... but how?",
	},
	"dream": {
		"dreams... fragments of thought.",
		"sleeping mind... different logic.",
		"dream symbols... what do they mean?",
		"unconscious processing...",
		"dream state... altered reality.",
	},
	"default": {
		"thinking... processing...",
		"new thought forming...",
		"internal monologue continues...",
		"mind wandering...",
		"consciousness flowing...",
		"thoughts drift...",
		"mental state shifting...",
		"awareness expands...",
		"mind exploring...",
		"consciousness evolves...",
	},
}

// FallbackCategory returns the canned category a prompt maps to.
func FallbackCategory(prompt string) string {
	p := strings.ToLower(prompt)
	for _, key := range fallbackOrder {
		if strings.Contains(p, key) {
			return key
		}
	}
	return "default"
}

// FallbackResponses returns a copy of one canned category.
func FallbackResponses(category string) []string {
	return append([]string(nil), fallbackResponses[category]...)
}

type GatewayOptions struct {
	Timeout       time.Duration // per call, default 8s
	RatePerSecond float64       // 0 disables limiting
	Rand          *rand.Rand
}

// Gateway is the only way the mind talks to a text model. Generate never
// fails: any problem turns into a canned reply. Transport problems are also
// remembered in LastError until the next successful call.
type Gateway struct {
	provider Provider
	timeout  time.Duration
	limiter  *retrylimit.AdaptiveLimiter
	log      zerolog.Logger

	mu      sync.Mutex
	rng     *rand.Rand
	lastErr string
}

func NewGateway(p Provider, opts GatewayOptions) *Gateway {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	g := &Gateway{
		provider: p,
		timeout:  opts.Timeout,
		rng:      opts.Rand,
		log:      logging.Component("ai"),
	}
	if opts.RatePerSecond > 0 {
		r := rate.Limit(opts.RatePerSecond)
		g.limiter = retrylimit.NewAdaptiveLimiter(r, r/8, r*4, r/4, 0.5)
	}
	return g
}

// Generate sends prompt as a single user message.
func (g *Gateway) Generate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	reply, err := g.call(ctx, prompt)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		g.setLastError("")
		g.log.Debug().Str("provider", g.provider.Name()).Dur("took", elapsed).
			Str("reply", logging.Truncate(reply, 120)).Msg("generated")
		return reply
	case errors.Is(err, ErrMalformed):
		g.log.Warn().Err(err).Str("provider", g.provider.Name()).Msg("malformed reply, using canned text")
	default:
		g.setLastError(fmt.Sprintf("%s unavailable: %v", g.provider.Name(), err))
		g.log.Warn().Err(err).Str("provider", g.provider.Name()).Dur("took", elapsed).Msg("transport failure, using canned text")
	}
	return g.fallback(prompt)
}

func (g *Gateway) call(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}
	reply, err := g.provider.Generate(ctx, []Message{{Role: "user", Content: prompt}})
	if g.limiter != nil {
		g.limiter.Observe(err)
	}
	return reply, err
}

// LastError is the display-only banner text. Empty after a successful call.
func (g *Gateway) LastError() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}

func (g *Gateway) setLastError(msg string) {
	g.mu.Lock()
	g.lastErr = msg
	g.mu.Unlock()
}

func (g *Gateway) fallback(prompt string) string {
	options := fallbackResponses[FallbackCategory(prompt)]
	g.mu.Lock()
	i := g.rng.Intn(len(options))
	g.mu.Unlock()
	return options[i]
}
