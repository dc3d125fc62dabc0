package pbx

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Bytes serializes the model: the original descriptor text with every staged
// insertion spliced in. With nothing staged the output is byte-identical to
// the input.
func (p *Project) Bytes() []byte {
	if len(p.edits) == 0 {
		return append([]byte(nil), p.raw...)
	}

	edits := append([]edit(nil), p.edits...)
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].at < edits[j].at })

	var buf bytes.Buffer
	prev := 0
	for _, e := range edits {
		buf.Write(p.raw[prev:e.at])
		if e.group != nil {
			buf.WriteString(renderGroup(e.group))
		} else {
			buf.WriteString(e.text)
		}
		prev = e.at
	}
	buf.Write(p.raw[prev:])
	return buf.Bytes()
}

// Dirty reports whether the model carries staged insertions, i.e. whether
// serializing it would differ from the original text.
func (p *Project) Dirty() bool {
	return len(p.edits) > 0
}

// appendSectionRecord stages a record line at the tail of a section, just
// before its End marker.
func (p *Project) appendSectionRecord(section, text string) {
	p.edits = append(p.edits, edit{at: p.sections[section].end, text: text})
}

// appendListEntry stages a new entry at the tail of a parenthesised
// identifier list. Existing entries keep their relative order and the
// closing indent is left intact; indentation for the new line is derived
// from the list itself rather than assumed.
func (p *Project) appendListEntry(sp span, entry string) {
	content := p.raw[sp.start:sp.end]
	if nl := bytes.LastIndexByte(content, '\n'); nl >= 0 {
		closing := string(content[nl+1:])
		p.edits = append(p.edits, edit{at: sp.start + nl + 1, text: closing + "\t" + entry + ",\n"})
		return
	}
	// Single-line list, e.g. children = (); open it up.
	indent := p.lineIndent(sp.start)
	p.edits = append(p.edits, edit{at: sp.end, text: "\n" + indent + "\t" + entry + ",\n" + indent})
}

// lineIndent returns the leading whitespace of the line containing pos.
func (p *Project) lineIndent(pos int) string {
	start := bytes.LastIndexByte(p.raw[:pos], '\n') + 1
	end := start
	for end < len(p.raw) && (p.raw[end] == '\t' || p.raw[end] == ' ') {
		end++
	}
	return string(p.raw[start:end])
}

func renderFileReference(ref *FileReference) string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXFileReference; lastKnownFileType = %s; path = %s; sourceTree = \"<group>\"; };\n",
		ref.ID, ref.Name, ref.FileType, quote(ref.Path))
}

func renderBuildFile(bf *BuildFile, refName string) string {
	return fmt.Sprintf("\t\t%s /* %s */ = {isa = PBXBuildFile; fileRef = %s /* %s */; };\n",
		bf.ID, bf.Name, bf.FileRef, refName)
}

func renderGroup(g *Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\t\t%s /* %s */ = {\n\t\t\tisa = PBXGroup;\n\t\t\tchildren = (\n", g.ID, g.Name)
	for _, entry := range g.entries {
		fmt.Fprintf(&b, "\t\t\t\t%s,\n", entry)
	}
	fmt.Fprintf(&b, "\t\t\t);\n\t\t\tpath = %s;\n\t\t\tsourceTree = \"<group>\";\n\t\t};\n", quote(g.Name))
	return b.String()
}

// unquotedRe matches strings the descriptor format accepts without quoting.
var unquotedRe = regexp.MustCompile(`^[A-Za-z0-9_./]+$`)

func quote(s string) string {
	if unquotedRe.MatchString(s) {
		return s
	}
	return `"` + s + `"`
}
