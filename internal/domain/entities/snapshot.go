package entities

import (
	"sort"
	"strings"
	"sync"
)

// DependencySnapshot is the parsed state of a repository at the start of a run.
type DependencySnapshot struct {
	Ecosystem       string
	Groups          []*DependencyGroup
	DependencyFiles []*DependencyFile
	Dependencies    []*Dependency

	mu      sync.Mutex
	handled map[handledKey]bool
}

// NewDependencySnapshot creates a snapshot for one ecosystem.
func NewDependencySnapshot(
	ecosystem string,
	groups []*DependencyGroup,
	files []*DependencyFile,
	dependencies []*Dependency,
) *DependencySnapshot {
	return &DependencySnapshot{
		Ecosystem:       ecosystem,
		Groups:          groups,
		DependencyFiles: files,
		Dependencies:    dependencies,
		handled:         make(map[handledKey]bool),
	}
}

// Group returns the group with the given name, or nil.
func (s *DependencySnapshot) Group(name string) *DependencyGroup {
	for _, group := range s.Groups {
		if group.Name == name {
			return group
		}
	}
	return nil
}

// OriginalFile returns the file as it was before any update, or nil.
func (s *DependencySnapshot) OriginalFile(key FileKey) *DependencyFile {
	for _, file := range s.DependencyFiles {
		if file.Key() == key {
			return file
		}
	}
	return nil
}

// DependenciesIn returns the dependencies declared in the given directory.
func (s *DependencySnapshot) DependenciesIn(directory string) []*Dependency {
	target := NormalizeDirectory(directory)
	var result []*Dependency
	for _, dependency := range s.Dependencies {
		if NormalizeDirectory(dependency.Directory) == target {
			result = append(result, dependency)
		}
	}
	return result
}

// GroupMembers returns the dependencies of the given directory that belong to the group.
func (s *DependencySnapshot) GroupMembers(group *DependencyGroup, directory string) []*Dependency {
	var members []*Dependency
	for _, dependency := range s.DependenciesIn(directory) {
		if group.Contains(dependency, directory) {
			members = append(members, dependency)
		}
	}
	return members
}

// AddHandledDependencies marks dependencies as already processed by some group in their directory.
func (s *DependencySnapshot) AddHandledDependencies(dependencies ...*Dependency) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.handled == nil {
		s.handled = make(map[handledKey]bool)
	}
	for _, dependency := range dependencies {
		s.handled[newHandledKey(dependency.Name, dependency.Directory)] = true
	}
}

// Handled reports whether the dependency name was already processed in the directory.
func (s *DependencySnapshot) Handled(name, directory string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handled[newHandledKey(name, directory)]
}

// HandledDependencies returns the processed dependencies as sorted "directory:name" keys.
func (s *DependencySnapshot) HandledDependencies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.handled))
	for key := range s.handled {
		keys = append(keys, key.directory+":"+key.name)
	}
	sort.Strings(keys)
	return keys
}

type handledKey struct {
	directory string
	name      string
}

func newHandledKey(name, directory string) handledKey {
	return handledKey{directory: NormalizeDirectory(directory), name: strings.ToLower(name)}
}
