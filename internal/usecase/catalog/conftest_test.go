package catalog

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/jobscout/internal/domain"
)

type mockSource struct {
	snap  domain.CatalogSnapshot
	err   error
	calls atomic.Int32
}

func (m *mockSource) Catalog(_ context.Context) (domain.CatalogSnapshot, error) {
	m.calls.Add(1)
	return m.snap, m.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
