package matcher

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/fetcharr/fetcharr/internal/logging"
	"github.com/fetcharr/fetcharr/internal/parser"
)

// Provider pairs a catalog with the limiter that throttles lookups against
// it. The limiter is shared by every worker hitting that provider; it is
// per provider, never per release.
type Provider struct {
	Name    string
	Catalog Catalog
	Limiter *rate.Limiter
}

// NewProvider wraps a catalog with a lookups-per-second budget. A rateLimit
// of 0 or less means unthrottled.
func NewProvider(name string, catalog Catalog, rateLimit float64) Provider {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), 1)
	}
	return Provider{Name: name, Catalog: catalog, Limiter: limiter}
}

// Result is the outcome for one release in a bulk run.
type Result struct {
	Release    *parser.ParsedRelease
	Candidates []Candidate
}

// Progress is reported after each release completes.
type Progress struct {
	Scored     int
	Pending    int
	Candidates int
	Release    *parser.ParsedRelease
}

// CanceledError reports how far a bulk run got before cancellation.
type CanceledError struct {
	Scored  int
	Pending int
	Cause   error
}

func (e *CanceledError) Error() string {
	return fmt.Sprintf("bulk match canceled: %d scored, %d pending: %v", e.Scored, e.Pending, e.Cause)
}

func (e *CanceledError) Unwrap() error {
	return e.Cause
}

// BulkOptions configures a bulk matching run.
type BulkOptions struct {
	Workers    int // concurrent releases, default 4
	OnProgress func(Progress)
}

// Bulk matches many releases concurrently against a set of providers.
// Cancellation takes effect between releases: in-flight releases finish,
// undispatched ones are reported as pending.
type Bulk struct {
	providers []Provider
	matchers  []*Matcher
	workers   int
	onDone    func(Progress)
	log       *logging.Logger
}

// NewBulk builds a bulk matcher. Strategy options apply uniformly across
// providers.
func NewBulk(providers []Provider, opts Options, bopts BulkOptions, log *logging.Logger) *Bulk {
	if log == nil {
		log = logging.Nop()
	}
	workers := bopts.Workers
	if workers <= 0 {
		workers = 4
	}

	matchers := make([]*Matcher, len(providers))
	for i, p := range providers {
		matchers[i] = New(p.Catalog, opts, log)
	}

	return &Bulk{
		providers: providers,
		matchers:  matchers,
		workers:   workers,
		onDone:    bopts.OnProgress,
		log:       log,
	}
}

// Run matches every release and returns results in input order. On
// cancellation it returns the completed portion together with a
// *CanceledError carrying the scored/pending split.
func (b *Bulk) Run(ctx context.Context, releases []*parser.ParsedRelease) ([]Result, error) {
	results := make([]Result, len(releases))
	done := make([]bool, len(releases))

	var mu sync.Mutex
	scored := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, rel := range releases {
		if err := ctx.Err(); err != nil {
			break
		}

		i, rel := i, rel
		g.Go(func() error {
			cands, consulted := b.matchOne(gctx, rel)
			if !consulted {
				// cancellation skipped every provider; the release was never
				// actually looked up and stays pending
				return nil
			}
			results[i] = Result{Release: rel, Candidates: cands}

			mu.Lock()
			done[i] = true
			scored++
			if b.onDone != nil {
				b.onDone(Progress{
					Scored:     scored,
					Pending:    len(releases) - scored,
					Candidates: len(cands),
					Release:    rel,
				})
			}
			mu.Unlock()
			return nil
		})
	}

	g.Wait()

	if scored < len(releases) {
		cause := ctx.Err()
		if cause == nil {
			cause = context.Canceled
		}
		compact := make([]Result, 0, scored)
		for i := range results {
			if done[i] {
				compact = append(compact, results[i])
			}
		}
		return compact, &CanceledError{Scored: scored, Pending: len(releases) - scored, Cause: cause}
	}
	return results, nil
}

// matchOne queries every provider for one release and merges the candidate
// lists. A provider that fails or is throttled past cancellation contributes
// nothing; the release still completes with the remaining providers. The
// second return is false when no provider was consulted at all, so the
// caller can count the release as pending instead of scored-empty.
func (b *Bulk) matchOne(ctx context.Context, rel *parser.ParsedRelease) ([]Candidate, bool) {
	var all []Candidate
	consulted := false
	for i, p := range b.providers {
		if err := p.Limiter.Wait(ctx); err != nil {
			b.log.Warn("matcher", "provider skipped", logging.F("provider", p.Name), logging.F("error", err))
			continue
		}
		consulted = true
		all = append(all, b.matchers[i].Match(ctx, rel)...)
	}
	return Merge(all), consulted
}
