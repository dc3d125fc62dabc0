// Package pbx models the record sections of an Xcode project descriptor
// (project.pbxproj) that matter for registering compilable source files:
// file references, build files, groups, and sources build phases.
//
// The descriptor is also maintained by Xcode itself, so the model never
// reformats what it did not touch. Parsing records byte spans into the
// original text, and every mutation is staged as an append-only splice;
// serializing a model with no staged mutations reproduces the input
// byte-for-byte.
package pbx

// Section names as they appear in the descriptor's Begin/End markers.
const (
	sectionBuildFile    = "PBXBuildFile"
	sectionFileRef      = "PBXFileReference"
	sectionGroup        = "PBXGroup"
	sectionSourcesPhase = "PBXSourcesBuildPhase"
)

// span is a half-open byte range into the original descriptor text.
type span struct {
	start, end int
}

// FileReference identifies one source file on disk. Created once when a file
// is first registered and never mutated or deleted afterwards.
type FileReference struct {
	ID       string
	Name     string // display name, the file's base name
	Path     string // relative to the containing group
	FileType string // lastKnownFileType tag, e.g. "sourcecode.swift"
}

// BuildFile links a FileReference into a build phase ("compile this file").
type BuildFile struct {
	ID      string
	Name    string // display name plus role suffix, e.g. "Foo.swift in Sources"
	FileRef string // identifier of the referenced FileReference
}

// Group is a display-only folder holding an ordered list of child record
// identifiers (file references or nested groups).
type Group struct {
	ID       string
	Name     string
	Children []string

	children span     // inside of the children = ( ... ) list
	fresh    bool     // created this session; rendered in full at write time
	entries  []string // rendered child entries for fresh groups
}

// SourcesPhase is an ordered list of BuildFile identifiers compiled as one
// build stage.
type SourcesPhase struct {
	ID    string
	Files []string

	files span // inside of the files = ( ... ) list
}

// Project is the in-memory descriptor model. The raw bytes it was parsed
// from are retained so serialization can preserve untouched regions exactly.
type Project struct {
	FileRefs   map[string]*FileReference
	BuildFiles map[string]*BuildFile
	Groups     map[string]*Group
	Phases     []*SourcesPhase
	MainGroup  string // identifier of the project's main group, "" if absent

	raw        []byte
	sections   map[string]span
	groupOrder []string
	edits      []edit
}

// edit is a staged insertion into the original text. When group is non-nil
// the record body is rendered at serialization time so children appended
// after staging are included.
type edit struct {
	at    int
	text  string
	group *Group
}

// Identifiers returns every identifier known to the model, including ones
// that appear only as list entries of records outside the modeled kinds.
func (p *Project) Identifiers() []string {
	seen := make(map[string]struct{})
	var ids []string
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for id := range p.FileRefs {
		add(id)
	}
	for id := range p.BuildFiles {
		add(id)
	}
	for id, g := range p.Groups {
		add(id)
		for _, c := range g.Children {
			add(c)
		}
	}
	for _, ph := range p.Phases {
		add(ph.ID)
		for _, f := range ph.Files {
			add(f)
		}
	}
	if p.MainGroup != "" {
		add(p.MainGroup)
	}
	return ids
}

// HasFileNamed reports whether any FileReference carries the given display
// name. Membership is name-based, matching the behavior of the interactive
// tooling this descriptor is shared with.
func (p *Project) HasFileNamed(name string) bool {
	for _, ref := range p.FileRefs {
		if ref.Name == name {
			return true
		}
	}
	return false
}

// GroupNamed returns the first group (in descriptor order) with the given
// display name, or nil.
func (p *Project) GroupNamed(name string) *Group {
	for _, id := range p.groupOrder {
		if g := p.Groups[id]; g != nil && g.Name == name {
			return g
		}
	}
	return nil
}

func (p *Project) phase(id string) *SourcesPhase {
	for _, ph := range p.Phases {
		if ph.ID == id {
			return ph
		}
	}
	return nil
}

func (p *Project) hasID(id string) bool {
	if _, ok := p.FileRefs[id]; ok {
		return true
	}
	if _, ok := p.BuildFiles[id]; ok {
		return true
	}
	if _, ok := p.Groups[id]; ok {
		return true
	}
	return p.phase(id) != nil
}

// Clone returns a deep copy of the model. The raw descriptor bytes are
// shared; they are never mutated.
func (p *Project) Clone() *Project {
	c := &Project{
		FileRefs:   make(map[string]*FileReference, len(p.FileRefs)),
		BuildFiles: make(map[string]*BuildFile, len(p.BuildFiles)),
		Groups:     make(map[string]*Group, len(p.Groups)),
		Phases:     make([]*SourcesPhase, 0, len(p.Phases)),
		MainGroup:  p.MainGroup,
		raw:        p.raw,
		sections:   make(map[string]span, len(p.sections)),
		groupOrder: append([]string(nil), p.groupOrder...),
		edits:      append([]edit(nil), p.edits...),
	}
	for id, ref := range p.FileRefs {
		cp := *ref
		c.FileRefs[id] = &cp
	}
	for id, bf := range p.BuildFiles {
		cp := *bf
		c.BuildFiles[id] = &cp
	}
	for id, g := range p.Groups {
		cp := *g
		cp.Children = append([]string(nil), g.Children...)
		cp.entries = append([]string(nil), g.entries...)
		c.Groups[id] = &cp
	}
	for _, ph := range p.Phases {
		cp := *ph
		cp.Files = append([]string(nil), ph.Files...)
		c.Phases = append(c.Phases, &cp)
	}
	for name, sp := range p.sections {
		c.sections[name] = sp
	}
	// Deferred group renders must point at the cloned groups.
	for i, e := range c.edits {
		if e.group != nil {
			c.edits[i].group = c.Groups[e.group.ID]
		}
	}
	return c
}
