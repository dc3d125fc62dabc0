package pbx

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// Record pattern matching mirrors what the descriptor format actually emits
// for these four record kinds; this is deliberately not a grammar for the
// whole format. Anything a pattern does not recognize stays untouched bytes.
var (
	fileRefRe = regexp.MustCompile(`(?m)^[ \t]*([0-9A-F]{24}) /\* (.+?) \*/ = \{isa = PBXFileReference;([^}]*)\};`)

	buildFileRe = regexp.MustCompile(`(?m)^[ \t]*([0-9A-F]{24}) /\* (.+?) \*/ = \{isa = PBXBuildFile; fileRef = ([0-9A-F]{24})[^}]*\};`)

	groupHeadRe = regexp.MustCompile(`(?m)^[ \t]*([0-9A-F]{24})(?: /\* (.+?) \*/)? = \{\s+isa = PBXGroup;\s+children = \(`)

	phaseHeadRe = regexp.MustCompile(`(?m)^[ \t]*([0-9A-F]{24})(?: /\* (.+?) \*/)? = \{\s+isa = PBXSourcesBuildPhase;[^(]*files = \(`)

	mainGroupRe = regexp.MustCompile(`mainGroup = ([0-9A-F]{24})`)

	pathAttrRe = regexp.MustCompile(`(?:^|[ \t])path = "?([^";]+)"?;`)
	nameAttrRe = regexp.MustCompile(`(?:^|[ \t])name = "?([^";]+)"?;`)
	typeAttrRe = regexp.MustCompile(`(?:lastKnownFileType|explicitFileType) = ([^;]+);`)

	recordIDRe = regexp.MustCompile(`[0-9A-F]{24}`)
)

// Parse loads raw descriptor text into a Project model. It fails with
// MalformedDescriptorError when any of the four required record sections is
// missing; in that case the caller must not attempt a mutation.
func Parse(raw []byte) (*Project, error) {
	p := &Project{
		FileRefs:   make(map[string]*FileReference),
		BuildFiles: make(map[string]*BuildFile),
		Groups:     make(map[string]*Group),
		raw:        append([]byte(nil), raw...),
		sections:   make(map[string]span, 4),
	}

	for _, name := range []string{sectionBuildFile, sectionFileRef, sectionGroup, sectionSourcesPhase} {
		sp, err := sectionSpan(p.raw, name)
		if err != nil {
			return nil, err
		}
		p.sections[name] = sp
	}

	p.parseFileReferences()
	p.parseBuildFiles()
	p.parseGroups()
	p.parsePhases()

	if m := mainGroupRe.FindSubmatch(p.raw); m != nil {
		p.MainGroup = string(m[1])
	}
	return p, nil
}

// sectionSpan locates the content between a section's Begin and End marker
// lines. The span ends at the start of the End marker's line so that
// appended records land immediately before it.
func sectionSpan(raw []byte, name string) (span, error) {
	begin := []byte("/* Begin " + name + " section */")
	end := []byte("/* End " + name + " section */")

	bi := bytes.Index(raw, begin)
	if bi < 0 {
		return span{}, &MalformedDescriptorError{Missing: name}
	}
	start := bi + len(begin)
	if nl := bytes.IndexByte(raw[start:], '\n'); nl >= 0 {
		start += nl + 1
	}

	ei := bytes.Index(raw[start:], end)
	if ei < 0 {
		return span{}, &MalformedDescriptorError{Missing: name}
	}
	lineStart := bytes.LastIndexByte(raw[:start+ei], '\n') + 1
	return span{start: start, end: lineStart}, nil
}

func (p *Project) parseFileReferences() {
	sp := p.sections[sectionFileRef]
	for _, m := range fileRefRe.FindAllSubmatch(p.raw[sp.start:sp.end], -1) {
		attrs := string(m[3])
		ref := &FileReference{ID: string(m[1])}
		if pm := pathAttrRe.FindStringSubmatch(attrs); pm != nil {
			ref.Path = pm[1]
		}
		if nm := nameAttrRe.FindStringSubmatch(attrs); nm != nil {
			ref.Name = nm[1]
		} else if ref.Path != "" {
			ref.Name = filepath.Base(ref.Path)
		} else {
			ref.Name = strings.TrimSpace(string(m[2]))
		}
		if tm := typeAttrRe.FindStringSubmatch(attrs); tm != nil {
			ref.FileType = strings.TrimSpace(tm[1])
		}
		p.FileRefs[ref.ID] = ref
	}
}

func (p *Project) parseBuildFiles() {
	sp := p.sections[sectionBuildFile]
	for _, m := range buildFileRe.FindAllSubmatch(p.raw[sp.start:sp.end], -1) {
		bf := &BuildFile{
			ID:      string(m[1]),
			Name:    strings.TrimSpace(string(m[2])),
			FileRef: string(m[3]),
		}
		p.BuildFiles[bf.ID] = bf
	}
}

func (p *Project) parseGroups() {
	sp := p.sections[sectionGroup]
	sub := p.raw[sp.start:sp.end]
	for _, m := range groupHeadRe.FindAllSubmatchIndex(sub, -1) {
		g := &Group{ID: string(sub[m[2]:m[3]])}

		childStart := m[1] // just past the opening paren of children = (
		rel := bytes.Index(sub[childStart:], []byte(");"))
		if rel < 0 {
			continue
		}
		childEnd := childStart + rel
		g.children = span{start: sp.start + childStart, end: sp.start + childEnd}
		for _, id := range recordIDRe.FindAll(sub[childStart:childEnd], -1) {
			g.Children = append(g.Children, string(id))
		}

		// Display name: name attribute, else path, else the comment.
		tail := sub[childEnd:]
		if be := bytes.Index(tail, []byte("};")); be >= 0 {
			tail = tail[:be]
		}
		if nm := nameAttrRe.FindSubmatch(tail); nm != nil {
			g.Name = string(nm[1])
		} else if pm := pathAttrRe.FindSubmatch(tail); pm != nil {
			g.Name = string(pm[1])
		} else if m[4] >= 0 {
			g.Name = strings.TrimSpace(string(sub[m[4]:m[5]]))
		}

		p.Groups[g.ID] = g
		p.groupOrder = append(p.groupOrder, g.ID)
	}
}

func (p *Project) parsePhases() {
	sp := p.sections[sectionSourcesPhase]
	sub := p.raw[sp.start:sp.end]
	for _, m := range phaseHeadRe.FindAllSubmatchIndex(sub, -1) {
		ph := &SourcesPhase{ID: string(sub[m[2]:m[3]])}

		listStart := m[1]
		rel := bytes.Index(sub[listStart:], []byte(");"))
		if rel < 0 {
			continue
		}
		listEnd := listStart + rel
		ph.files = span{start: sp.start + listStart, end: sp.start + listEnd}
		for _, id := range recordIDRe.FindAll(sub[listStart:listEnd], -1) {
			ph.Files = append(ph.Files, string(id))
		}
		p.Phases = append(p.Phases, ph)
	}
}
