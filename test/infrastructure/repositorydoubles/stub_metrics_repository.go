//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// IncrementCall records a single invocation of Increment.
type IncrementCall struct {
	Metric string
	Value  int
	Tags   map[string]string
}

// SpyMetricsRepository implements repositories.MetricsRepository as a spy.
type SpyMetricsRepository struct {
	mu    sync.Mutex
	Calls []IncrementCall
}

var _ repositories.MetricsRepository = (*SpyMetricsRepository)(nil)

func (m *SpyMetricsRepository) Increment(metric string, value int, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, IncrementCall{Metric: metric, Value: value, Tags: tags})
}

// CallsFor returns the recorded calls for one metric.
func (m *SpyMetricsRepository) CallsFor(metric string) []IncrementCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []IncrementCall
	for _, call := range m.Calls {
		if call.Metric == metric {
			calls = append(calls, call)
		}
	}
	return calls
}
