package copybook

import (
	"fmt"
	"strings"

	"github.com/cobol85/cobolasg/internal/cobpos"
)

// Error is the shared shape for every preprocessor failure: a position plus
// a message, rendered as "file:line:col: message". Preprocessor errors are
// fatal per compilation unit, never retried.
type Error struct {
	Pos cobpos.Pos
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// CopybookNotFoundError reports that a COPY'd name could not be resolved
// against any of the configured search directories.
type CopybookNotFoundError struct {
	Pos cobpos.Pos
	Name string
	Library string
	Searched []string
}

func (e CopybookNotFoundError) Error() string {
	lib := ""
	if e.Library != "" {
		lib = fmt.Sprintf(" of %s", e.Library)
	}
	return fmt.Sprintf("%s: copybook %s%s not found; searched: %s",
		e.Pos, e.Name, lib, strings.Join(e.Searched, ", "))
}

// RecursiveCopybookError reports that name is already on the stack of
// copybooks currently being expanded.
type RecursiveCopybookError struct {
	Pos cobpos.Pos
	Name string
	Chain []string
}

func (e RecursiveCopybookError) Error() string {
	return fmt.Sprintf("%s: recursive COPY of %s (expansion chain: %s)",
		e.Pos, e.Name, strings.Join(append(e.Chain, e.Name), " -> "))
}

// MaxDepthExceededError fires when Config.MaxDepth is exceeded without a
// literal cycle (e.g. A copies B copies C copies D... beyond the guard).
type MaxDepthExceededError struct {
	Pos cobpos.Pos
	Name string
	MaxDepth int
}

func (e MaxDepthExceededError) Error() string {
	return fmt.Sprintf("%s: COPY expansion of %s exceeded max depth %d", e.Pos, e.Name, e.MaxDepth)
}

// SyntaxError reports a malformed COPY/REPLACE/EXEC directive.
type SyntaxError struct {
	Pos cobpos.Pos
	Message string
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
