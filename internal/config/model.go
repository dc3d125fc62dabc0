// Package config holds the format-agnostic project configuration model.
// Explicit configuration replaces the hidden process-wide path constants of
// older tooling; everything the pipeline needs arrives through this model.
package config

import "errors"

// Model is the unified configuration for one pbxsync run.
type Model struct {
	Project   *Project
	Simulator *Simulator // nil unless a simulator block is configured
}

// Project configures the descriptor mutation pipeline.
type Project struct {
	// Descriptor is the path to the project.pbxproj file.
	Descriptor string
	// SourceRoot is the directory walked for candidate source files.
	SourceRoot string
	// TargetGroup optionally names the parent group for newly created groups.
	TargetGroup string
	// CreateGroups allocates a group per source folder when no existing
	// group matches the folder name.
	CreateGroups bool
	// Extensions lists recognized source extensions; empty means the
	// planner's default set.
	Extensions []string
}

// Simulator configures the build/launch workflow around the descriptor.
type Simulator struct {
	UDID          string
	BundleID      string
	Scheme        string
	Configuration string
	DerivedData   string
	LogsDir       string
}

// RequireSimulator returns the simulator configuration or an error when the
// run needs one and none was configured.
func (m *Model) RequireSimulator() (*Simulator, error) {
	if m.Simulator == nil {
		return nil, errors.New("this command needs a simulator block in the config file")
	}
	return m.Simulator, nil
}
