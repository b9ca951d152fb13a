package domain

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model          string
	Dimensions     int
	DistanceMetric string
	Algorithm      string
}

// DefaultVectorConfig returns the default configuration tuned for
// text-embedding-3-small with reduced dimensions.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:          "text-embedding-3-small",
		Dimensions:     1024,
		DistanceMetric: "cosine",
		Algorithm:      "hnsw",
	}
}
