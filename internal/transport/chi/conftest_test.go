package chi

import (
	"context"
	"net/http/httptest"
	"testing"

	gochi "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/bayanapps/dalil/internal/domain"
	"github.com/bayanapps/dalil/internal/domain/job"
	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	healthuc "github.com/bayanapps/dalil/internal/usecase/health"
	reindexuc "github.com/bayanapps/dalil/internal/usecase/reindex"
)

type mockSearch struct {
	searchFn func(ctx context.Context, req *domsearch.Request) (domsearch.Page, error)
}

func (m *mockSearch) Search(ctx context.Context, req *domsearch.Request) (domsearch.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return domsearch.Page{Page: 1, PageSize: domsearch.DefaultPageSize}, nil
}

type mockReindex struct {
	startFn func(ctx context.Context, req reindexuc.StartRequest) (*job.Job, error)
	jobFn   func(ctx context.Context, id string) (*job.Job, error)
}

func (m *mockReindex) Start(ctx context.Context, req reindexuc.StartRequest) (*job.Job, error) {
	if m.startFn != nil {
		return m.startFn(ctx, req)
	}
	return &job.Job{ID: "job-1", State: job.Pending}, nil
}

func (m *mockReindex) Job(ctx context.Context, id string) (*job.Job, error) {
	if m.jobFn != nil {
		return m.jobFn(ctx, id)
	}
	return nil, domain.ErrJobNotFound
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	if m.report.Status == "" {
		return healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}
	}
	return m.report
}

type mockEntries struct {
	getFn func(ctx context.Context, id string) (domain.Entry, error)
}

func (m *mockEntries) Get(ctx context.Context, id string) (domain.Entry, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Entry{}, domain.ErrEntryNotFound
}

type mockMetadata struct {
	loadRegistryFn func(ctx context.Context) (metadata.Registry, error)
	saveTypeFn     func(ctx context.Context, t metadata.Type) error
	saveOptionFn   func(ctx context.Context, o metadata.Option) error
	assignFn       func(ctx context.Context, entryID, typeName, value string) error
	unassignFn     func(ctx context.Context, entryID, typeName, value string) error
}

func (m *mockMetadata) LoadRegistry(ctx context.Context) (metadata.Registry, error) {
	if m.loadRegistryFn != nil {
		return m.loadRegistryFn(ctx)
	}
	return metadata.Registry{}, nil
}

func (m *mockMetadata) SaveType(ctx context.Context, t metadata.Type) error {
	if m.saveTypeFn != nil {
		return m.saveTypeFn(ctx, t)
	}
	return nil
}

func (m *mockMetadata) SaveOption(ctx context.Context, o metadata.Option) error {
	if m.saveOptionFn != nil {
		return m.saveOptionFn(ctx, o)
	}
	return nil
}

func (m *mockMetadata) Assign(ctx context.Context, entryID, typeName, value string) error {
	if m.assignFn != nil {
		return m.assignFn(ctx, entryID, typeName, value)
	}
	return nil
}

func (m *mockMetadata) Unassign(ctx context.Context, entryID, typeName, value string) error {
	if m.unassignFn != nil {
		return m.unassignFn(ctx, entryID, typeName, value)
	}
	return nil
}

type serverMocks struct {
	search  *mockSearch
	reindex *mockReindex
	health  *mockHealth
	entries *mockEntries
	meta    *mockMetadata
}

// newTestServer wires a server with mocks onto a live httptest server.
func newTestServer(t *testing.T, mocks serverMocks, adminKeys ...string) *httptest.Server {
	t.Helper()
	if mocks.search == nil {
		mocks.search = &mockSearch{}
	}
	if mocks.reindex == nil {
		mocks.reindex = &mockReindex{}
	}
	if mocks.health == nil {
		mocks.health = &mockHealth{}
	}
	if mocks.entries == nil {
		mocks.entries = &mockEntries{}
	}
	if mocks.meta == nil {
		mocks.meta = &mockMetadata{}
	}

	s := NewServer(mocks.search, mocks.reindex, mocks.health, mocks.entries, mocks.meta, zap.NewNop())
	r := gochi.NewRouter()
	s.Routes(r, adminKeys)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}
