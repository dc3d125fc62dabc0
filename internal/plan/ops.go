package plan

import (
	"fmt"

	"github.com/vk/pbxsync/internal/pbx"
)

// Op is one planned addition to the descriptor model. Ops are emitted in
// dependency order: a record always appears before anything referencing it.
type Op interface {
	isOp()
}

// AddFileReference registers a new source file record.
type AddFileReference struct {
	Ref pbx.FileReference
}

// AddBuildFile links a planned file reference into the build.
type AddBuildFile struct {
	BuildFile pbx.BuildFile
}

// AddGroup creates a new display group.
type AddGroup struct {
	Group pbx.Group
}

// AppendGroupChild appends a child identifier to a group's children list.
type AppendGroupChild struct {
	Group string
	Child string
}

// AppendPhaseFile appends a build file identifier to a sources phase.
type AppendPhaseFile struct {
	Phase     string
	BuildFile string
}

func (AddFileReference) isOp() {}
func (AddBuildFile) isOp()     {}
func (AddGroup) isOp()         {}
func (AppendGroupChild) isOp() {}
func (AppendPhaseFile) isOp()  {}

// SkipReason explains why a candidate was left out of the plan. Skips are
// informational, never errors.
type SkipReason string

const (
	SkipAlreadyRegistered SkipReason = "already present"
	SkipUnrecognizedType  SkipReason = "unrecognized type"
)

// Skipped is a candidate omitted from the plan, kept for reporting.
type Skipped struct {
	Name   string
	Reason SkipReason
}

// Plan is an ordered list of additions plus the report of what was skipped.
type Plan struct {
	Ops     []Op
	Added   []string // display names this plan registers
	Skipped []Skipped
}

// Empty reports whether the plan contains no operations.
func (p *Plan) Empty() bool {
	return len(p.Ops) == 0
}

// AnchorNotFoundError reports that an insertion point required by the plan
// could not be located in the model. The whole plan is discarded; no partial
// mutation happens.
type AnchorNotFoundError struct {
	Anchor string
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("insertion anchor not found: %s", e.Anchor)
}
