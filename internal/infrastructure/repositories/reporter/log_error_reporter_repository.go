package reporter

import (
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
	"github.com/rios0rios0/autogroup/internal/domain/repositories"
)

// JobError is one recorded update job error.
type JobError struct {
	ErrorType  string
	Dependency string
	Message    string
}

// LogErrorReporterRepository logs job errors and keeps them for the run summary.
type LogErrorReporterRepository struct {
	mu     sync.Mutex
	errors []JobError
}

var _ repositories.ErrorReporterRepository = (*LogErrorReporterRepository)(nil)

// NewLogErrorReporterRepository creates an empty reporter.
func NewLogErrorReporterRepository() *LogErrorReporterRepository {
	return &LogErrorReporterRepository{}
}

func (r *LogErrorReporterRepository) RecordUpdateJobError(
	errorType string,
	dependency *entities.Dependency,
	err error,
) {
	entry := JobError{ErrorType: errorType}
	if dependency != nil {
		entry.Dependency = dependency.Name
	}
	if err != nil {
		entry.Message = err.Error()
	}

	r.mu.Lock()
	r.errors = append(r.errors, entry)
	r.mu.Unlock()

	logger.WithFields(logger.Fields{
		"error_type": entry.ErrorType,
		"dependency": entry.Dependency,
	}).Warnf("Update job error: %s", entry.Message)
}

// Errors returns the recorded errors in order.
func (r *LogErrorReporterRepository) Errors() []JobError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]JobError(nil), r.errors...)
}
