package asg

import (
	"fmt"

	"github.com/cobol85/cobolasg/internal/cobpos"
)

// UnresolvedReferenceError reports a cross-reference that could not be
// resolved. Non-fatal, recorded on Program.Diagnostics. Clause names which
// clause's operand failed to resolve (REDEFINES, OCCURS DEPENDING ON, a
// statement operand, a PERFORM target,...).
type UnresolvedReferenceError struct {
	Pos cobpos.Pos
	RawName string
	Clause string
}

func (e UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: unresolved %s reference to %q", e.Pos, e.Clause, e.RawName)
}
