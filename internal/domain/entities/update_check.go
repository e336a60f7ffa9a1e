package entities

// UpdateCheck is the outcome of checking one dependency for a newer version.
type UpdateCheck struct {
	LatestVersion       string
	UpToDate            bool
	UpdatePossible      bool
	UpdatedDependencies []*Dependency
}

// CanUpdate reports whether the check produced an applicable update.
func (c *UpdateCheck) CanUpdate() bool {
	return !c.UpToDate && c.UpdatePossible && len(c.UpdatedDependencies) > 0
}
