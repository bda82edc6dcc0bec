package port

import (
	"context"

	"tubely/internal/domain"
)

// MediaProber reads stream geometry from a local media file.
type MediaProber interface {
	Probe(ctx context.Context, path string) (domain.Geometry, error)
}

// MediaOptimizer rewrites a local media file for progressive playback and
// returns the new file's path. The path is returned on failure as well when
// a partial output may exist.
type MediaOptimizer interface {
	Optimize(ctx context.Context, path string) (string, error)
}
