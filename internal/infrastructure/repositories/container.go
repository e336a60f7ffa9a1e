package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/autogroup/internal/domain/repositories"
	gitRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/gitsource"
	goRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/golang"
	jsRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/javascript"
	jlRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/julia"
	metricsRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/metrics"
	pyRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/python"
	replayRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/replay"
	reporterRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/reporter"
	semverRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/semver"
	tfRepo "github.com/rios0rios0/autogroup/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register ecosystem registry with all ecosystem factories
	if err := container.Provide(func() *EcosystemRegistry {
		reg := NewEcosystemRegistry()
		reg.Register("replay", replayRepo.NewEcosystemRepository)
		return reg
	}); err != nil {
		return err
	}

	// Register lockfile registry with all readers and workspace linkers
	if err := container.Provide(func() *LockfileRegistry {
		reg := NewLockfileRegistry()
		reg.RegisterDetector(tfRepo.NewLockfileRepository())
		reg.RegisterDetector(goRepo.NewGoModRepository())
		reg.RegisterDetector(jlRepo.NewManifestRepository())
		reg.RegisterDetector(pyRepo.NewPoetryLockRepository())
		reg.RegisterDetector(jsRepo.NewPackageLockRepository())
		reg.RegisterLinker(jlRepo.NewWorkspaceRepository())
		return reg
	}); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func() domainRepos.VersionRepository {
		return semverRepo.NewVersionRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.MetricsRepository {
		return metricsRepo.NewLogMetricsRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.ErrorReporterRepository {
		return reporterRepo.NewLogErrorReporterRepository()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() domainRepos.FileSourceRepository {
		return gitRepo.NewFileSourceRepository()
	}); err != nil {
		return err
	}

	return nil
}
