// Package plan computes the exact set of descriptor additions needed to
// register a list of candidate source files, without performing any of them.
package plan

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vk/pbxsync/internal/ctxlog"
	"github.com/vk/pbxsync/internal/oid"
	"github.com/vk/pbxsync/internal/pbx"
)

// Candidate is one discovered source file: its display name (base name) and
// its path relative to the source root.
type Candidate struct {
	Name string
	Path string
}

// Options controls group placement and candidate filtering.
type Options struct {
	// TargetGroup names the parent for newly created groups. Empty means
	// newly created groups hang off the main group.
	TargetGroup string
	// CreateGroups allocates a group per source folder when no existing
	// group matches; otherwise unmatched files land in the main group.
	CreateGroups bool
	// Extensions lists recognized source-file extensions. Empty means
	// DefaultExtensions.
	Extensions []string
}

// DefaultExtensions is the recognized extension set when none is configured.
var DefaultExtensions = []string{".swift"}

// fileTypes maps a source extension to the descriptor's file-kind tag.
var fileTypes = map[string]string{
	".swift": "sourcecode.swift",
	".m":     "sourcecode.c.objc",
	".mm":    "sourcecode.cpp.objcpp",
	".c":     "sourcecode.c.c",
	".cc":    "sourcecode.cpp.cpp",
	".cpp":   "sourcecode.cpp.cpp",
	".metal": "sourcecode.metal",
}

// Compute plans the additions registering every candidate not yet present in
// the model. Membership is name-based: a candidate whose display name
// matches an existing file reference is skipped, which deliberately treats
// same-named files in different folders as duplicates.
//
// The returned plan is empty when nothing is missing. Identifier allocation
// happens once per needed record; apart from that the result is a pure
// function of the inputs.
func Compute(ctx context.Context, proj *pbx.Project, candidates []Candidate, opts Options) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	exts := make(map[string]struct{})
	configured := opts.Extensions
	if len(configured) == 0 {
		configured = DefaultExtensions
	}
	for _, e := range configured {
		exts[strings.ToLower(e)] = struct{}{}
	}

	gen := oid.New(proj.Identifiers()...)
	p := &Plan{}
	planned := make(map[string]struct{}) // names registered earlier in this plan
	newGroups := make(map[string]string) // source folder -> planned group id

	for _, c := range candidates {
		if c.Name == "" {
			continue
		}
		ext := strings.ToLower(filepath.Ext(c.Name))
		if _, ok := exts[ext]; !ok {
			p.Skipped = append(p.Skipped, Skipped{Name: c.Name, Reason: SkipUnrecognizedType})
			continue
		}
		if _, dup := planned[c.Name]; dup || proj.HasFileNamed(c.Name) {
			p.Skipped = append(p.Skipped, Skipped{Name: c.Name, Reason: SkipAlreadyRegistered})
			continue
		}

		if len(proj.Phases) == 0 {
			return nil, &AnchorNotFoundError{Anchor: "sources build phase"}
		}
		phaseID := proj.Phases[0].ID

		groupID, groupOps, err := resolveGroup(proj, c, opts, gen, newGroups)
		if err != nil {
			return nil, err
		}

		ref := pbx.FileReference{
			ID:       gen.Next(),
			Name:     c.Name,
			Path:     c.Name, // group-relative
			FileType: fileTypes[ext],
		}
		bf := pbx.BuildFile{
			ID:      gen.Next(),
			Name:    c.Name + " in Sources",
			FileRef: ref.ID,
		}

		p.Ops = append(p.Ops, AddFileReference{Ref: ref})
		p.Ops = append(p.Ops, groupOps...)
		p.Ops = append(p.Ops,
			AddBuildFile{BuildFile: bf},
			AppendGroupChild{Group: groupID, Child: ref.ID},
			AppendPhaseFile{Phase: phaseID, BuildFile: bf.ID},
		)
		p.Added = append(p.Added, c.Name)
		planned[c.Name] = struct{}{}
	}

	logger.Debug("Plan computed.", "ops", len(p.Ops), "added", len(p.Added), "skipped", len(p.Skipped))
	return p, nil
}

// resolveGroup decides which group receives the candidate: an existing group
// matching the candidate's folder name, a group planned earlier in this run,
// a newly planned group when configured, or the main group as fallback.
func resolveGroup(proj *pbx.Project, c Candidate, opts Options, gen *oid.Generator, newGroups map[string]string) (string, []Op, error) {
	folder := filepath.Base(filepath.Dir(c.Path))
	if folder == "." || folder == string(filepath.Separator) {
		folder = ""
	}

	if folder != "" {
		if g := proj.GroupNamed(folder); g != nil {
			return g.ID, nil, nil
		}
		if id, ok := newGroups[folder]; ok {
			return id, nil, nil
		}
		if opts.CreateGroups {
			parent, err := groupParent(proj, opts)
			if err != nil {
				return "", nil, err
			}
			id := gen.Next()
			newGroups[folder] = id
			return id, []Op{
				AddGroup{Group: pbx.Group{ID: id, Name: folder}},
				AppendGroupChild{Group: parent, Child: id},
			}, nil
		}
	}

	if proj.MainGroup == "" || proj.Groups[proj.MainGroup] == nil {
		return "", nil, &AnchorNotFoundError{Anchor: "main group"}
	}
	return proj.MainGroup, nil, nil
}

func groupParent(proj *pbx.Project, opts Options) (string, error) {
	if opts.TargetGroup != "" {
		g := proj.GroupNamed(opts.TargetGroup)
		if g == nil {
			return "", &AnchorNotFoundError{Anchor: "group " + opts.TargetGroup}
		}
		return g.ID, nil
	}
	if proj.MainGroup == "" || proj.Groups[proj.MainGroup] == nil {
		return "", &AnchorNotFoundError{Anchor: "main group"}
	}
	return proj.MainGroup, nil
}
