package reindex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
)

func TestStart_PersistsPendingJob(t *testing.T) {
	jobs := newMemJobs()
	c := testCoordinator(&mockEntries{}, jobs, &mockEmbedder{}, nil, Options{})

	started, err := c.Start(context.Background(), StartRequest{EntryIDs: []string{"a"}})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.ID == "" {
		t.Fatal("expected a job id")
	}
	if started.State != job.Pending {
		t.Errorf("expected pending state at start, got %q", started.State)
	}
	c.Wait()
}

func TestRun_OneBadEntryDoesNotAbortTheJob(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("entry-%02d", i)
	}

	var mu sync.Mutex
	embedded := 0
	embed := &mockEmbedder{
		embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
			mu.Lock()
			defer mu.Unlock()
			embedded++
			if embedded == 5 {
				return domain.EmbeddingResult{}, domain.ErrProviderUnavailable
			}
			return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
		},
	}
	c := testCoordinator(&mockEntries{}, newMemJobs(), embed, nil, Options{BatchSize: 10})

	final := runJob(t, c, StartRequest{EntryIDs: ids, BatchSize: 10})
	if final.State != job.Completed {
		t.Fatalf("per-entry errors must not fail the job, got state %q", final.State)
	}
	if final.Processed != 11 || final.Errors != 1 {
		t.Errorf("expected processed=11 errors=1, got processed=%d errors=%d",
			final.Processed, final.Errors)
	}
	if final.Total != 12 {
		t.Errorf("expected total=12, got %d", final.Total)
	}
	if final.CurrentEntry != "" {
		t.Errorf("finished job must clear current entry, got %q", final.CurrentEntry)
	}
	if !strings.Contains(final.Message, "11") || !strings.Contains(final.Message, "1 errors") {
		t.Errorf("completion message must carry the counts, got %q", final.Message)
	}
	if final.FinishedAt.IsZero() {
		t.Error("completed job must record a finish time")
	}
}

func TestRun_NoProviderFailsJob(t *testing.T) {
	c := testCoordinator(&mockEntries{}, newMemJobs(), nil, nil, Options{})

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}})
	if final.State != job.Failed {
		t.Fatalf("expected failed state without a provider, got %q", final.State)
	}
	if final.Message == "" {
		t.Error("failed job must explain itself")
	}
}

func TestRun_ListErrorFailsJob(t *testing.T) {
	entries := &mockEntries{
		listIDsFn: func(_ context.Context, _ bool, _, _ int) ([]string, int, error) {
			return nil, 0, errors.New("index missing")
		},
	}
	c := testCoordinator(entries, newMemJobs(), &mockEmbedder{}, nil, Options{})

	final := runJob(t, c, StartRequest{})
	if final.State != job.Failed {
		t.Fatalf("expected failed state when the catalog cannot be listed, got %q", final.State)
	}
}

func TestRun_WalksWholeCatalogWhenUnscoped(t *testing.T) {
	catalog := []string{"a", "b", "c", "d", "e"}
	entries := &mockEntries{
		listIDsFn: func(_ context.Context, publishedOnly bool, offset, limit int) ([]string, int, error) {
			if !publishedOnly {
				t.Error("unscoped reindex must walk published entries only")
			}
			end := offset + 2 // force paging
			if end > len(catalog) {
				end = len(catalog)
			}
			if offset >= len(catalog) {
				return nil, len(catalog), nil
			}
			return catalog[offset:end], len(catalog), nil
		},
	}
	c := New(entries, newMemJobs(), &mockRegistryLoader{}, &mockEmbedder{}, nil, Options{}, zap.NewNop())

	final := runJob(t, c, StartRequest{})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q: %s", final.State, final.Message)
	}
	if final.Total != 5 || final.Processed != 5 {
		t.Errorf("expected all 5 catalog entries processed, got total=%d processed=%d",
			final.Total, final.Processed)
	}
}

func TestRun_BatchPauseStacksOnEntryPause(t *testing.T) {
	c := testCoordinator(&mockEntries{}, newMemJobs(), &mockEmbedder{}, nil, Options{
		EntryPause: 15 * time.Millisecond,
		BatchPause: 30 * time.Millisecond,
	})

	// Three entries, batch of two: an entry pause after the first and second
	// entries plus a batch pause after the second, none after the last.
	start := time.Now()
	final := runJob(t, c, StartRequest{EntryIDs: []string{"a", "b", "c"}, BatchSize: 2})
	elapsed := time.Since(start)

	if final.State != job.Completed {
		t.Fatalf("unexpected state %q: %s", final.State, final.Message)
	}
	if want := 60 * time.Millisecond; elapsed < want {
		t.Errorf("expected at least %v of pauses, job ran in %v", want, elapsed)
	}
}

func TestRun_CrawlRefreshesStaleEnrichment(t *testing.T) {
	var savedText string
	entries := &mockEntries{
		saveEnrichmentFn: func(_ context.Context, _ string, text string, _ time.Time) error {
			savedText = text
			return nil
		},
	}
	var composed string
	embed := &mockEmbedder{
		embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
			composed = text
			return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
		},
	}
	fetch := &mockFetcher{
		fetchFn: func(_ context.Context, _ *domain.Entry) (string, error) {
			return "crawled listing text", nil
		},
	}
	c := testCoordinator(entries, newMemJobs(), embed, fetch, Options{})

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}, Crawl: true})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q: %s", final.State, final.Message)
	}
	if savedText != "crawled listing text" {
		t.Errorf("expected enrichment saved, got %q", savedText)
	}
	if final.Enriched != 1 {
		t.Errorf("expected enriched=1, got %d", final.Enriched)
	}
	if !strings.Contains(composed, "[ENRICHMENT] crawled listing text") {
		t.Errorf("fresh enrichment must flow into the embedded document, got %q", composed)
	}
}

func TestRun_FreshEnrichmentSkippedUnlessForced(t *testing.T) {
	fresh := publishedEntry("a")
	fresh.EnrichedText = "cached text"
	fresh.EnrichedAt = time.Now().UTC().Add(-time.Hour)

	entries := &mockEntries{
		getFn: func(_ context.Context, id string) (domain.Entry, error) {
			return fresh, nil
		},
	}
	fetches := 0
	fetch := &mockFetcher{
		fetchFn: func(_ context.Context, _ *domain.Entry) (string, error) {
			fetches++
			return "new text", nil
		},
	}
	c := testCoordinator(entries, newMemJobs(), &mockEmbedder{}, fetch, Options{})

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}, Crawl: true})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q", final.State)
	}
	if fetches != 0 {
		t.Errorf("fresh enrichment must not be re-crawled, got %d fetches", fetches)
	}

	final = runJob(t, c, StartRequest{EntryIDs: []string{"a"}, Force: true})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q", final.State)
	}
	if fetches != 1 {
		t.Errorf("force must re-crawl fresh enrichment, got %d fetches", fetches)
	}
}

func TestRun_EnrichmentFailureIsSoft(t *testing.T) {
	fetch := &mockFetcher{
		fetchFn: func(_ context.Context, _ *domain.Entry) (string, error) {
			return "", domain.ErrEnrichmentFailed
		},
	}
	c := testCoordinator(&mockEntries{}, newMemJobs(), &mockEmbedder{}, fetch, Options{})

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}, Crawl: true})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q", final.State)
	}
	if final.Processed != 1 || final.Errors != 0 {
		t.Errorf("enrichment failure must not count against the entry, got processed=%d errors=%d",
			final.Processed, final.Errors)
	}
}

func TestRun_QuickModeSkipsFullDescriptions(t *testing.T) {
	var composed string
	embed := &mockEmbedder{
		embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
			composed = text
			return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
		},
	}
	c := testCoordinator(&mockEntries{}, newMemJobs(), embed, nil, Options{})

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}, Quick: true})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q", final.State)
	}
	if strings.Contains(composed, "[DESCRIPTION]") {
		t.Errorf("quick mode must omit full descriptions, got %q", composed)
	}
	if !strings.Contains(composed, "[NAME]") {
		t.Errorf("quick document still carries core sections, got %q", composed)
	}
}

func TestRun_MetadataSectionsFlowIntoDocument(t *testing.T) {
	entry := publishedEntry("a")
	entry.MetadataValues = map[string][]string{"pricing": {"free"}}
	entries := &mockEntries{
		getFn: func(_ context.Context, _ string) (domain.Entry, error) {
			return entry, nil
		},
	}
	var composed string
	embed := &mockEmbedder{
		embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
			composed = text
			return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
		},
	}
	c := New(entries, newMemJobs(), &mockRegistryLoader{reg: testRegistry(t)},
		embed, nil, Options{}, zap.NewNop())

	final := runJob(t, c, StartRequest{EntryIDs: []string{"a"}})
	if final.State != job.Completed {
		t.Fatalf("unexpected state %q", final.State)
	}
	if !strings.Contains(composed, "[PRICING]") || !strings.Contains(composed, "Free") {
		t.Errorf("metadata sections must reach the embedded document, got %q", composed)
	}
}

func TestJob_UnknownIDReturnsNotFound(t *testing.T) {
	c := testCoordinator(&mockEntries{}, newMemJobs(), &mockEmbedder{}, nil, Options{})

	if _, err := c.Job(context.Background(), "nope"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}
