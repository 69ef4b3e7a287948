package normalize

import (
	"context"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

// CatalogReader supplies the vocabulary snapshot used for prompt context and fuzzy lookup.
type CatalogReader interface {
	Get(ctx context.Context) domain.CatalogSnapshot
}
