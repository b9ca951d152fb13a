package search

import (
	"context"

	"github.com/bayanapps/dalil/internal/domain/metadata"
	domsearch "github.com/bayanapps/dalil/internal/domain/search"
	"github.com/bayanapps/dalil/internal/domain/search/filter"
)

// Repository defines the storage contract for the retrieval pipeline.
type Repository interface {
	SearchKNN(
		ctx context.Context, vector []float32, filters filter.Expression,
		k int, reg metadata.Registry,
	) ([]domsearch.Candidate, error)

	SamplePopulation(
		ctx context.Context, filters filter.Expression,
		limit int, reg metadata.Registry,
	) ([]domsearch.Candidate, error)
}

// RegistryLoader loads the active metadata vocabulary snapshot.
type RegistryLoader interface {
	LoadRegistry(ctx context.Context) (metadata.Registry, error)
}
