package metrics

import (
	"sort"
	"strings"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// LogMetricsRepository keeps counters in memory and logs every increment.
type LogMetricsRepository struct {
	mu       sync.Mutex
	counters map[string]int
	log      logger.FieldLogger
}

var _ repositories.MetricsRepository = (*LogMetricsRepository)(nil)

// NewLogMetricsRepository creates an empty metrics repository.
func NewLogMetricsRepository() *LogMetricsRepository {
	return &LogMetricsRepository{
		counters: make(map[string]int),
		log:      logger.StandardLogger(),
	}
}

// Increment adds value to the counter identified by the metric and its tags.
func (r *LogMetricsRepository) Increment(metric string, value int, tags map[string]string) {
	key := counterKey(metric, tags)

	r.mu.Lock()
	r.counters[key] += value
	r.mu.Unlock()

	fields := logger.Fields{"metric": metric, "value": value}
	for name, tag := range tags {
		fields[name] = tag
	}
	r.log.WithFields(fields).Debugf("metric %s += %d", metric, value)
}

// Counter returns the current value of a counter.
func (r *LogMetricsRepository) Counter(metric string, tags map[string]string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[counterKey(metric, tags)]
}

// Snapshot returns a copy of every counter keyed by "metric{tag=value,...}".
func (r *LogMetricsRepository) Snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[string]int, len(r.counters))
	for key, value := range r.counters {
		snapshot[key] = value
	}
	return snapshot
}

func counterKey(metric string, tags map[string]string) string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+tags[name])
	}
	return metric + "{" + strings.Join(pairs, ",") + "}"
}
