package grouping

import (
	"path"
	"sync"

	"github.com/rios0rios0/autogroup/internal/domain/entities"
)

type batchFile struct {
	file    *entities.DependencyFile
	updated bool
}

// DependencyGroupChangeBatch accumulates the dependencies and files updated while
// one group is processed. Files are only ever added or replaced by a newer
// version, never removed. It is safe for concurrent use.
type DependencyGroupChangeBatch struct {
	mu           sync.Mutex
	files        map[entities.FileKey]*batchFile
	order        []entities.FileKey
	dependencies []*entities.Dependency
}

// NewDependencyGroupChangeBatch creates a batch seeded with every file of the run.
func NewDependencyGroupChangeBatch(initialFiles []*entities.DependencyFile) *DependencyGroupChangeBatch {
	batch := &DependencyGroupChangeBatch{files: make(map[entities.FileKey]*batchFile)}
	for _, file := range initialFiles {
		batch.putFile(file, false)
	}
	return batch
}

// CurrentDependencyFiles returns the current version of the files in the job's
// directory together with every file linked to them through shared lockfiles,
// followed transitively. Each file appears once.
func (b *DependencyGroupChangeBatch) CurrentDependencyFiles(job *entities.Job) []*entities.DependencyFile {
	b.mu.Lock()
	defer b.mu.Unlock()

	directory := "/"
	if job != nil {
		directory = job.Source.Directory
	}
	target := entities.NormalizeDirectory(directory)

	byPath := make(map[string]entities.FileKey, len(b.order))
	for _, key := range b.order {
		byPath[b.files[key].file.Path()] = key
	}

	included := make(map[entities.FileKey]bool)
	var queue []entities.FileKey
	for _, key := range b.order {
		if key.Directory == target {
			included[key] = true
			queue = append(queue, key)
		}
	}

	for len(queue) > 0 {
		file := b.files[queue[0]].file
		queue = queue[1:]

		for _, linked := range associatedPaths(file) {
			key, ok := byPath[linked]
			if !ok || included[key] {
				continue
			}
			included[key] = true
			queue = append(queue, key)
		}
	}

	result := make([]*entities.DependencyFile, 0, len(included))
	for _, key := range b.order {
		if included[key] {
			result = append(result, b.files[key].file)
		}
	}
	return result
}

// AddUpdatedDependency records an updated dependency. A dependency already
// recorded for the same directory is replaced, keeping its original previous
// version.
func (b *DependencyGroupChangeBatch) AddUpdatedDependency(dependency *entities.Dependency) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addDependency(dependency)
}

// MergeChange folds one dependency change into the batch.
func (b *DependencyGroupChangeBatch) MergeChange(change *entities.DependencyChange) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, dependency := range change.UpdatedDependencies {
		b.addDependency(dependency)
	}
	for _, file := range change.UpdatedDependencyFiles {
		b.putFile(file, true)
	}
}

// Merge combines a batch built independently into this one. Dependencies are
// concatenated; files are deduplicated by (directory, name), preferring updated
// versions.
func (b *DependencyGroupChangeBatch) Merge(other *DependencyGroupChangeBatch) {
	if other == nil || other == b {
		return
	}

	other.mu.Lock()
	dependencies := append([]*entities.Dependency(nil), other.dependencies...)
	files := make([]batchFile, 0, len(other.order))
	for _, key := range other.order {
		files = append(files, *other.files[key])
	}
	other.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.dependencies = append(b.dependencies, dependencies...)
	for _, entry := range files {
		existing, ok := b.files[entry.file.Key()]
		if ok && existing.updated && !entry.updated {
			continue
		}
		b.putFile(entry.file, entry.updated)
	}
}

// UpdatedDependencies returns the dependencies recorded so far.
func (b *DependencyGroupChangeBatch) UpdatedDependencies() []*entities.Dependency {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.Dependency(nil), b.dependencies...)
}

// UpdatedDependencyFiles returns the files changed by at least one update.
func (b *DependencyGroupChangeBatch) UpdatedDependencyFiles() []*entities.DependencyFile {
	b.mu.Lock()
	defer b.mu.Unlock()

	var result []*entities.DependencyFile
	for _, key := range b.order {
		if entry := b.files[key]; entry.updated {
			result = append(result, entry.file)
		}
	}
	return result
}

// DependencyFiles returns the current version of every file in the batch.
func (b *DependencyGroupChangeBatch) DependencyFiles() []*entities.DependencyFile {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]*entities.DependencyFile, 0, len(b.order))
	for _, key := range b.order {
		result = append(result, b.files[key].file)
	}
	return result
}

func (b *DependencyGroupChangeBatch) addDependency(dependency *entities.Dependency) {
	directory := entities.NormalizeDirectory(dependency.Directory)
	for i, existing := range b.dependencies {
		if existing.Name != dependency.Name || entities.NormalizeDirectory(existing.Directory) != directory {
			continue
		}
		replacement := *dependency
		if existing.PreviousVersion != "" {
			replacement.PreviousVersion = existing.PreviousVersion
		}
		b.dependencies[i] = &replacement
		return
	}
	b.dependencies = append(b.dependencies, dependency)
}

func (b *DependencyGroupChangeBatch) putFile(file *entities.DependencyFile, updated bool) {
	key := file.Key()
	if existing, ok := b.files[key]; ok {
		existing.file = file
		existing.updated = existing.updated || updated
		return
	}
	b.files[key] = &batchFile{file: file, updated: updated}
	b.order = append(b.order, key)
}

// associatedPaths resolves the lockfile and manifest links of a file to
// repository-rooted paths.
func associatedPaths(file *entities.DependencyFile) []string {
	base := entities.NormalizeDirectory(file.Directory)
	resolve := func(p string) string {
		if path.IsAbs(p) {
			return path.Clean(p)
		}
		return path.Join(base, p)
	}

	var paths []string
	if file.AssociatedLockfilePath != "" {
		paths = append(paths, resolve(file.AssociatedLockfilePath))
	}
	for _, manifest := range file.AssociatedManifestPaths {
		paths = append(paths, resolve(manifest))
	}
	return paths
}
