package metadata

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	existsFn       func(ctx context.Context, key string) (bool, error)
	saddFn         func(ctx context.Context, key string, members ...string) error
	sremFn         func(ctx context.Context, key string, members ...string) error
	smembersFn     func(ctx context.Context, key string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SRem(ctx context.Context, key string, members ...string) error {
	if m.sremFn != nil {
		return m.sremFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

// memStore wires the mock to in-memory maps so multi-step flows like
// assign/unassign see their own writes.
type memStore struct {
	hashes map[string]map[string]string
	sets   map[string]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]bool),
	}
}

func (m *memStore) bind(ms *mockStore) {
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		h, ok := m.hashes[key]
		if !ok {
			h = make(map[string]string)
			m.hashes[key] = h
		}
		for k, v := range fields {
			h[k] = v
		}
		return nil
	}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		out := make(map[string]string)
		for k, v := range m.hashes[key] {
			out[k] = v
		}
		return out, nil
	}
	ms.hgetAllMultiFn = func(ctx context.Context, keys []string) ([]map[string]string, error) {
		out := make([]map[string]string, len(keys))
		for i, k := range keys {
			h, _ := ms.hgetAllFn(ctx, k)
			out[i] = h
		}
		return out, nil
	}
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		_, ok := m.hashes[key]
		return ok, nil
	}
	ms.saddFn = func(_ context.Context, key string, members ...string) error {
		s, ok := m.sets[key]
		if !ok {
			s = make(map[string]bool)
			m.sets[key] = s
		}
		for _, mem := range members {
			s[mem] = true
		}
		return nil
	}
	ms.sremFn = func(_ context.Context, key string, members ...string) error {
		for _, mem := range members {
			delete(m.sets[key], mem)
		}
		return nil
	}
	ms.smembersFn = func(_ context.Context, key string) ([]string, error) {
		var out []string
		for mem := range m.sets[key] {
			out = append(out, mem)
		}
		return out, nil
	}
}

func (m *memStore) entryField(entryID, field string) string {
	return m.hashes["dalil:entry:"+entryID][field]
}

func hasMember(m *memStore, key, member string) bool {
	return m.sets[key][member]
}
