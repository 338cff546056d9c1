package fcl

import "github.com/pkg/errors"

// invariantViolation wraps a programming-error panic (corrupt tree state,
// a caller passing a leaf this tree doesn't own) with a stack trace via
// pkg/errors, so a recovered panic is actionable. The source treats these
// as undefined behavior ("implementations should assert"); we go one step
// further and make the condition at least diagnosable if a caller recovers.
func invariantViolation(msg string) error {
	return errors.New("fcl: " + msg)
}
