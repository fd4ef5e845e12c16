package loader

import (
	"fmt"
	"strings"

	"github.com/robinvdvleuten/journal/ast"
)

// IncludeCycleError is returned when a file includes itself, directly or
// through other files.
type IncludeCycleError struct {
	Pos   ast.Position // The include directive that closes the cycle
	Chain []string     // Files from the first occurrence back to itself
}

func (e *IncludeCycleError) Error() string {
	return fmt.Sprintf("%s:%d: include cycle: %s", e.Pos.Filename, e.Pos.Line, strings.Join(e.Chain, " -> "))
}

func (e *IncludeCycleError) GetPosition() ast.Position {
	return e.Pos
}
