package pbx

import "fmt"

// AddFileReference registers a new file reference record. The record is
// appended at the end of the PBXFileReference section.
func (p *Project) AddFileReference(ref *FileReference) error {
	if p.hasID(ref.ID) {
		return &IntegrityError{Op: "AddFileReference", Ref: ref.ID, Reason: "identifier already in use"}
	}
	cp := *ref
	p.FileRefs[cp.ID] = &cp
	p.appendSectionRecord(sectionFileRef, renderFileReference(&cp))
	return nil
}

// AddBuildFile registers a new build file record pointing at an existing
// file reference.
func (p *Project) AddBuildFile(bf *BuildFile) error {
	if p.hasID(bf.ID) {
		return &IntegrityError{Op: "AddBuildFile", Ref: bf.ID, Reason: "identifier already in use"}
	}
	ref, ok := p.FileRefs[bf.FileRef]
	if !ok {
		return &IntegrityError{Op: "AddBuildFile", Ref: bf.FileRef, Reason: "file reference does not exist"}
	}
	cp := *bf
	p.BuildFiles[cp.ID] = &cp
	p.appendSectionRecord(sectionBuildFile, renderBuildFile(&cp, ref.Name))
	return nil
}

// AddGroup registers a new, initially empty group. Its record body is
// rendered at serialization time so children appended later are included.
func (p *Project) AddGroup(g *Group) error {
	if p.hasID(g.ID) {
		return &IntegrityError{Op: "AddGroup", Ref: g.ID, Reason: "identifier already in use"}
	}
	ng := &Group{ID: g.ID, Name: g.Name, fresh: true}
	p.Groups[ng.ID] = ng
	p.groupOrder = append(p.groupOrder, ng.ID)
	p.edits = append(p.edits, edit{at: p.sections[sectionGroup].end, group: ng})
	return nil
}

// AppendGroupChild appends a child identifier to a group's children list.
// The child must resolve to an existing file reference or group.
func (p *Project) AppendGroupChild(groupID, childID string) error {
	g, ok := p.Groups[groupID]
	if !ok {
		return &IntegrityError{Op: "AppendGroupChild", Ref: groupID, Reason: "group does not exist"}
	}
	var comment string
	switch {
	case p.FileRefs[childID] != nil:
		comment = p.FileRefs[childID].Name
	case p.Groups[childID] != nil:
		comment = p.Groups[childID].Name
	default:
		return &IntegrityError{Op: "AppendGroupChild", Ref: childID, Reason: "child resolves to no file reference or group"}
	}
	for _, c := range g.Children {
		if c == childID {
			return &IntegrityError{Op: "AppendGroupChild", Ref: childID, Reason: "already a child of this group"}
		}
	}

	entry := fmt.Sprintf("%s /* %s */", childID, comment)
	if g.fresh {
		g.entries = append(g.entries, entry)
	} else {
		p.appendListEntry(g.children, entry)
	}
	g.Children = append(g.Children, childID)
	return nil
}

// AppendPhaseFile appends a build file identifier to a sources phase. Each
// file reference may be compiled at most once per phase.
func (p *Project) AppendPhaseFile(phaseID, buildFileID string) error {
	ph := p.phase(phaseID)
	if ph == nil {
		return &IntegrityError{Op: "AppendPhaseFile", Ref: phaseID, Reason: "build phase does not exist"}
	}
	bf, ok := p.BuildFiles[buildFileID]
	if !ok {
		return &IntegrityError{Op: "AppendPhaseFile", Ref: buildFileID, Reason: "build file does not exist"}
	}
	for _, f := range ph.Files {
		if f == buildFileID {
			return &IntegrityError{Op: "AppendPhaseFile", Ref: buildFileID, Reason: "already listed in this phase"}
		}
		if other := p.BuildFiles[f]; other != nil && other.FileRef == bf.FileRef {
			return &IntegrityError{Op: "AppendPhaseFile", Ref: bf.FileRef, Reason: "file reference already compiled in this phase"}
		}
	}

	p.appendListEntry(ph.files, fmt.Sprintf("%s /* %s */", bf.ID, bf.Name))
	ph.Files = append(ph.Files, buildFileID)
	return nil
}
