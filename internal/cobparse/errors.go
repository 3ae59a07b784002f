package cobparse

import (
	"fmt"

	"github.com/cobol85/cobolasg/internal/cobpos"
)

// Error is this package's ParseError, reported by the parser front end.
// cobparse stands in for the external grammar/parser collaborator (see the
// package doc), so it raises this shape rather than inventing a separate
// one; internal/asg never needs to tell a cobparse.Error from a
// copybook.Error apart, both render as "file:line:col: message".
type Error struct {
	Pos cobpos.Pos
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
