// Package apply executes a mutation plan against a descriptor model,
// all-or-nothing.
package apply

import (
	"context"
	"fmt"

	"github.com/vk/pbxsync/internal/ctxlog"
	"github.com/vk/pbxsync/internal/pbx"
	"github.com/vk/pbxsync/internal/plan"
)

// Apply runs every operation of the plan, in order, against a copy of the
// model and returns the mutated copy. If any operation fails the error is
// returned and the input model is left untouched, so no partial mutation can
// ever reach disk. An integrity failure here means the planner produced a
// plan it should not have.
func Apply(ctx context.Context, proj *pbx.Project, p *plan.Plan) (*pbx.Project, error) {
	logger := ctxlog.FromContext(ctx)

	next := proj.Clone()
	for _, op := range p.Ops {
		var err error
		switch op := op.(type) {
		case plan.AddFileReference:
			err = next.AddFileReference(&op.Ref)
		case plan.AddBuildFile:
			err = next.AddBuildFile(&op.BuildFile)
		case plan.AddGroup:
			err = next.AddGroup(&op.Group)
		case plan.AppendGroupChild:
			err = next.AppendGroupChild(op.Group, op.Child)
		case plan.AppendPhaseFile:
			err = next.AppendPhaseFile(op.Phase, op.BuildFile)
		default:
			err = fmt.Errorf("unknown operation %T", op)
		}
		if err != nil {
			return nil, fmt.Errorf("applying %T: %w", op, err)
		}
	}

	logger.Debug("Plan applied.", "ops", len(p.Ops))
	return next, nil
}
