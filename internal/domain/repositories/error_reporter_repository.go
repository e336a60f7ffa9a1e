package repositories

import "github.com/rios0rios0/autogroup/internal/domain/entities"

// ErrorReporterRepository records job errors for later inspection.
type ErrorReporterRepository interface {
	RecordUpdateJobError(errorType string, dependency *entities.Dependency, err error)
}
