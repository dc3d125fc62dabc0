package pbx

import "fmt"

// MalformedDescriptorError reports a descriptor in which a required record
// section could not be located. No mutation is attempted against such a
// descriptor.
type MalformedDescriptorError struct {
	Missing string // section name whose Begin/End markers were not found
}

func (e *MalformedDescriptorError) Error() string {
	return fmt.Sprintf("malformed descriptor: %s section not found", e.Missing)
}

// IntegrityError reports a mutation that would leave the model with a
// dangling or duplicate cross-reference. A correctly constructed plan never
// triggers one; seeing it means the planner has a bug.
type IntegrityError struct {
	Op     string // mutation that was rejected
	Ref    string // offending identifier
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("referential integrity violation in %s: %s (%s)", e.Op, e.Ref, e.Reason)
}
