// Package hcl is the HCL implementation of the config.Loader interface. A
// pbxsync config file carries a project block and, optionally, a simulator
// block; attribute values may reference process environment variables
// through the env object.
package hcl

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/pbxsync/internal/config"
	"github.com/vk/pbxsync/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a config file.
type fileRoot struct {
	Project   *projectBlock   `hcl:"project,block"`
	Simulator *simulatorBlock `hcl:"simulator,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

type projectBlock struct {
	Descriptor   string   `hcl:"descriptor"`
	SourceRoot   string   `hcl:"source_root"`
	TargetGroup  string   `hcl:"target_group,optional"`
	CreateGroups bool     `hcl:"create_groups,optional"`
	Extensions   []string `hcl:"extensions,optional"`
}

type simulatorBlock struct {
	UDID          string `hcl:"udid"`
	BundleID      string `hcl:"bundle_id"`
	Scheme        string `hcl:"scheme"`
	Configuration string `hcl:"configuration,optional"`
	DerivedData   string `hcl:"derived_data,optional"`
	LogsDir       string `hcl:"logs_dir,optional"`
}

// Load parses and decodes the config file at path into the unified model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	if root.Project == nil {
		return nil, fmt.Errorf("config file %s has no project block", path)
	}

	model := &config.Model{
		Project: &config.Project{
			Descriptor:   root.Project.Descriptor,
			SourceRoot:   root.Project.SourceRoot,
			TargetGroup:  root.Project.TargetGroup,
			CreateGroups: root.Project.CreateGroups,
			Extensions:   root.Project.Extensions,
		},
	}
	if root.Simulator != nil {
		sim := &config.Simulator{
			UDID:          root.Simulator.UDID,
			BundleID:      root.Simulator.BundleID,
			Scheme:        root.Simulator.Scheme,
			Configuration: root.Simulator.Configuration,
			DerivedData:   root.Simulator.DerivedData,
			LogsDir:       root.Simulator.LogsDir,
		}
		if sim.Configuration == "" {
			sim.Configuration = "Debug"
		}
		if sim.DerivedData == "" {
			sim.DerivedData = "build"
		}
		if sim.LogsDir == "" {
			sim.LogsDir = "logs"
		}
		model.Simulator = sim
	}

	logger.Debug("HCL loading complete.", "has_simulator", model.Simulator != nil)
	return model, nil
}

// evalContext exposes the process environment as an env object so config
// attributes can interpolate values like env.HOME.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			vars[k] = cty.StringVal(v)
		}
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
