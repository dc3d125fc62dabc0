package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/pbxsync/internal/apply"
	"github.com/vk/pbxsync/internal/ctxlog"
	"github.com/vk/pbxsync/internal/pbx"
	"github.com/vk/pbxsync/internal/plan"
	"github.com/vk/pbxsync/internal/scan"
	"github.com/vk/pbxsync/internal/simulator"
	"github.com/vk/pbxsync/internal/storage"
)

// Run executes the selected command.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", appConfig.Command)

	switch appConfig.Command {
	case CommandAdd:
		return a.runAdd(ctx, appConfig)
	case CommandBuild:
		w, err := a.workflow()
		if err != nil {
			return err
		}
		return w.Build(ctx)
	case CommandBoot:
		w, err := a.workflow()
		if err != nil {
			return err
		}
		if err := w.Boot(ctx); err != nil {
			return err
		}
		return w.OpenWindow(ctx)
	case CommandLaunch:
		w, err := a.workflow()
		if err != nil {
			return err
		}
		appPath, err := w.AppPath()
		if err != nil {
			return err
		}
		if err := w.Install(ctx, appPath); err != nil {
			return err
		}
		return w.Launch(ctx)
	case CommandScreenshot:
		w, err := a.workflow()
		if err != nil {
			return err
		}
		return w.Screenshot(ctx, appConfig.ScreenshotPath)
	case CommandRun:
		w, err := a.workflow()
		if err != nil {
			return err
		}
		return w.Full(ctx, appConfig.ScreenshotPath)
	default:
		return fmt.Errorf("unknown command %q", appConfig.Command)
	}
}

// runAdd is the descriptor mutation pipeline: read, plan, apply, write. All
// fatal conditions abort before the write step; the on-disk descriptor is
// only ever replaced by a fully applied, referentially consistent model.
func (a *App) runAdd(ctx context.Context, appConfig *Config) error {
	project := a.model.Project

	file := storage.NewFile(project.Descriptor)
	raw, err := file.Load()
	if err != nil {
		return err
	}

	proj, err := pbx.Parse(raw)
	if err != nil {
		return err
	}
	a.logger.Debug("Descriptor parsed.",
		"file_refs", len(proj.FileRefs),
		"build_files", len(proj.BuildFiles),
		"groups", len(proj.Groups),
		"phases", len(proj.Phases),
	)

	candidates, err := scan.Sources(project.SourceRoot, project.Extensions)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", project.SourceRoot, err)
	}
	fmt.Fprintf(a.outW, "Found %d candidate files\n", len(candidates))

	p, err := plan.Compute(ctx, proj, candidates, plan.Options{
		TargetGroup:  project.TargetGroup,
		CreateGroups: project.CreateGroups,
		Extensions:   project.Extensions,
	})
	if err != nil {
		return err
	}

	for _, s := range p.Skipped {
		fmt.Fprintf(a.outW, "Skipping %s (%s)\n", s.Name, s.Reason)
	}
	if p.Empty() {
		fmt.Fprintln(a.outW, "No files to add")
		return nil
	}
	if appConfig.DryRun {
		for _, name := range p.Added {
			fmt.Fprintf(a.outW, "Would add %s\n", name)
		}
		return nil
	}

	mutated, err := apply.Apply(ctx, proj, p)
	if err != nil {
		return err
	}
	if err := file.Replace(mutated.Bytes()); err != nil {
		return err
	}

	for _, name := range p.Added {
		fmt.Fprintf(a.outW, "Added %s\n", name)
	}
	fmt.Fprintf(a.outW, "Added %d files to the project\n", len(p.Added))
	return nil
}

// workflow builds the simulator workflow for the configured project. The
// .xcodeproj directory is the descriptor's parent.
func (a *App) workflow() (*simulator.Workflow, error) {
	sim, err := a.model.RequireSimulator()
	if err != nil {
		return nil, err
	}
	projectPath := filepath.Dir(a.model.Project.Descriptor)
	return simulator.New(a.runner, a.outW, projectPath, sim), nil
}
