//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"sync"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// RecordedError is a single invocation of RecordUpdateJobError.
type RecordedError struct {
	ErrorType  string
	Dependency *entities.Dependency
	Err        error
}

// SpyErrorReporterRepository implements repositories.ErrorReporterRepository as a spy.
type SpyErrorReporterRepository struct {
	mu     sync.Mutex
	Errors []RecordedError
}

var _ repositories.ErrorReporterRepository = (*SpyErrorReporterRepository)(nil)

func (s *SpyErrorReporterRepository) RecordUpdateJobError(
	errorType string,
	dependency *entities.Dependency,
	err error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, RecordedError{ErrorType: errorType, Dependency: dependency, Err: err})
}

// ErrorTypes returns the recorded error types in order.
func (s *SpyErrorReporterRepository) ErrorTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.Errors))
	for _, recorded := range s.Errors {
		types = append(types, recorded.ErrorType)
	}
	return types
}
