package matcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fetcharr/fetcharr/internal/parser"
)

func TestBulkRunMatchesAllReleases(t *testing.T) {
	cat := &fakeCatalog{entries: []Entry{
		{ExternalID: "tvdb:153021", Title: "The Walking Dead", Year: 2010, Type: ContentSeries},
	}}
	provider := NewProvider("test", cat, 0)

	var mu sync.Mutex
	var progress []Progress
	b := NewBulk([]Provider{provider}, Options{}, BulkOptions{
		Workers: 2,
		OnProgress: func(p Progress) {
			mu.Lock()
			progress = append(progress, p)
			mu.Unlock()
		},
	}, nil)

	releases := []*parser.ParsedRelease{
		release("the walking dead", 2010),
		release("the walking dead", 0),
		release("unrelated title", 0),
	}

	results, err := b.Run(context.Background(), releases)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != len(releases) {
		t.Fatalf("results = %d, want %d", len(results), len(releases))
	}

	// results hold input order
	for i, r := range results {
		if r.Release != releases[i] {
			t.Errorf("results[%d] holds wrong release", i)
		}
	}
	if len(results[0].Candidates) == 0 {
		t.Error("first release matched no candidates")
	}

	if len(progress) != len(releases) {
		t.Fatalf("progress callbacks = %d, want %d", len(progress), len(releases))
	}
	final := progress[len(progress)-1]
	if final.Pending != 0 {
		t.Errorf("final Pending = %d, want 0", final.Pending)
	}
}

func TestBulkRunCanceledBeforeStart(t *testing.T) {
	cat := &fakeCatalog{}
	b := NewBulk([]Provider{NewProvider("test", cat, 0)}, Options{}, BulkOptions{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	releases := []*parser.ParsedRelease{
		release("one", 0),
		release("two", 0),
		release("three", 0),
	}

	results, err := b.Run(ctx, releases)
	if err == nil {
		t.Fatal("Run returned nil error on canceled context")
	}

	var canceled *CanceledError
	if !errors.As(err, &canceled) {
		t.Fatalf("error = %T, want *CanceledError", err)
	}
	if canceled.Scored != 0 || canceled.Pending != len(releases) {
		t.Errorf("scored/pending = %d/%d, want 0/%d", canceled.Scored, canceled.Pending, len(releases))
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("CanceledError should unwrap to context.Canceled")
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

// cancelingCatalog cancels the run from inside its first Search call,
// simulating cancellation landing while a release is in flight.
type cancelingCatalog struct {
	fakeCatalog
	cancel context.CancelFunc
	once   sync.Once
}

func (c *cancelingCatalog) Search(ctx context.Context, term string, filt Filters) ([]Entry, error) {
	c.once.Do(c.cancel)
	return c.fakeCatalog.Search(ctx, term, filt)
}

func TestBulkRunCanceledMidRunKeepsSkippedPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cat := &cancelingCatalog{
		fakeCatalog: fakeCatalog{entries: []Entry{
			{ExternalID: "tvdb:153021", Title: "The Walking Dead", Year: 2010, Type: ContentSeries},
		}},
		cancel: cancel,
	}
	b := NewBulk([]Provider{NewProvider("test", cat, 0)}, Options{}, BulkOptions{Workers: 1}, nil)

	releases := []*parser.ParsedRelease{
		release("the walking dead", 2010),
		release("the walking dead", 0),
	}

	results, err := b.Run(ctx, releases)

	// the first release was in flight and completes; the second is either
	// never dispatched or dispatched after cancellation with every provider
	// skipped, and must count as pending either way
	var canceled *CanceledError
	if !errors.As(err, &canceled) {
		t.Fatalf("error = %T, want *CanceledError", err)
	}
	if canceled.Scored != 1 || canceled.Pending != 1 {
		t.Errorf("scored/pending = %d/%d, want 1/1", canceled.Scored, canceled.Pending)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].Release != releases[0] {
		t.Error("completed result holds wrong release")
	}
}

func TestMatchOneCanceledConsultsNoProvider(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBulk([]Provider{NewProvider("test", &fakeCatalog{}, 0)}, Options{}, BulkOptions{}, nil)

	cands, consulted := b.matchOne(ctx, release("anything", 0))
	if consulted {
		t.Error("consulted = true, want false on canceled context")
	}
	if len(cands) != 0 {
		t.Errorf("candidates = %v, want none", cands)
	}
}

func TestBulkProviderFailureDoesNotFailRun(t *testing.T) {
	broken := NewProvider("broken", &fakeCatalog{
		searchErr: errors.New("down"),
		aliasErr:  errors.New("down"),
	}, 0)
	working := NewProvider("working", &fakeCatalog{entries: []Entry{
		{ExternalID: "tvdb:153021", Title: "The Walking Dead", Year: 2010, Type: ContentSeries},
	}}, 0)

	b := NewBulk([]Provider{broken, working}, Options{}, BulkOptions{}, nil)

	results, err := b.Run(context.Background(), []*parser.ParsedRelease{
		release("the walking dead", 0),
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(results) != 1 || len(results[0].Candidates) == 0 {
		t.Fatal("working provider candidates lost when sibling provider fails")
	}
}
