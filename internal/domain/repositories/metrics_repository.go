package repositories

// MetricsRepository records counters. Implementations must not fail the caller.
type MetricsRepository interface {
	Increment(metric string, value int, tags map[string]string)
}
