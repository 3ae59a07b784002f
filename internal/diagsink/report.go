package diagsink

import (
	"time"

	"github.com/gofrs/uuid"

	"github.com/cobol85/cobolasg/internal/asg"
)

// ReportFrom builds a BuildReport from one file's build outcome: the
// compilation-unit name (first unit's, if any), the preprocessor's deepest
// COPY nesting reached (copybookDepthReached, from copybook.Result.MaxDepthReached),
// and the Program's diagnostics split by kind.
func ReportFrom(runID uuid.UUID, path string, program *asg.Program, copybookDepthReached int, builtAt time.Time) BuildReport {
	r := BuildReport{
		RunID:                runID,
		Path:                 path,
		CopybookDepthReached: copybookDepthReached,
		BuiltAt:              builtAt,
	}
	if program == nil {
		r.StructuralErrors = 1
		return r
	}
	if units := program.Units(); len(units) > 0 {
		r.CompilationUnit = units[0].Name
	}
	for _, d := range program.Diagnostics {
		switch d.(type) {
		case asg.UnresolvedReferenceError:
			r.UnresolvedCount++
		case asg.DuplicateDefinitionError:
			r.DuplicateCount++
		default:
			r.StructuralErrors++
		}
	}
	return r
}
