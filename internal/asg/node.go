// Package asg implements the ASG builder: a multi-pass tree walker that,
// given a cobparse parse tree for one compilation unit, constructs the
// typed Abstract Semantic Graph of that program.
//
// The source metamodel's deep inheritance ("every element extends a base
// element") collapses to a tagged-variant Node plus a small common header,
// rather than one Go type per clause. The uniform add<Clause> contract is
// implemented once as addChild; clause-specific behavior is a Kind plus
// whatever Attrs/Lists it populates.
package asg

import (
	"fmt"

	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/cobpos"
)

// Kind tags what an ASG Node represents.
type Kind int

const (
	KindProgram Kind = iota
	KindCompilationUnit
	KindProgramUnit
	KindIdentificationDivision
	KindEnvironmentDivision
	KindFileControlParagraph
	KindSelectEntry
	KindDataDivision
	KindFileSection
	KindFileDescriptor
	KindWorkingStorageSection
	KindLinkageSection
	KindDataItem // level 01-49 or 77
	KindRenamesItem // level 66
	KindConditionName // level 88
	KindProcedureDivision
	KindProcedureSection
	KindParagraph
	KindStatement
	KindExecBlock
	KindDataReference // an operand reference resolved to a KindDataItem/KindConditionName
	KindProcedureReference // a PERFORM target resolved to a KindParagraph/KindProcedureSection
	KindUnresolvedReference // "unresolved placeholder"
)

func (k Kind) String() string {
	names := [...]string{
		"Program", "CompilationUnit", "ProgramUnit", "IdentificationDivision",
		"EnvironmentDivision", "FileControlParagraph", "SelectEntry",
		"DataDivision", "FileSection", "FileDescriptor",
		"WorkingStorageSection", "LinkageSection", "DataItem", "RenamesItem",
		"ConditionName", "ProcedureDivision", "ProcedureSection", "Paragraph",
		"Statement", "ExecBlock", "DataReference", "ProcedureReference",
		"UnresolvedReference",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// Node is the single ASG node shape (common header: stable
// identity, parse-tree back-reference, parent back-reference, named
// children) plus a small attribute bag covering every clause kind this
// system models.
type Node struct {
	id int
	kind Kind
	ctx *cobparse.Context
	parent *Node

	// Children is the ordered, owning child list. Cross-references are never stored here; they
	// live in Target/Candidates/RawName below.
	Children []*Node

	Name string
	Level int

	Attrs map[string]string
	Lists map[string][]string

	// Qualifiers is the "OF x OF y" chain carried over from the
	// cobparse.Context this reference node was built from, used during
	// resolution.
	Qualifiers []string
	Literal bool

	// Target is the resolved cross-reference for a KindDataReference or
	// KindProcedureReference. Candidates holds every node that matched
	// during an ambiguous resolution ; RawName is set only on
	// KindUnresolvedReference.
	Target *Node
	Candidates []*Node
	RawName string

	// Dialect/RawText carry an EXEC block's embedded text.
	Dialect string
	RawText string

	// Docstring/Metadata are the the supplemented design docblock supplement, set
	// only on an IdentificationDivision node.
	Docstring []string
	Metadata map[string]any
}

func (n *Node) ID() int { return n.id }
func (n *Node) Kind() Kind { return n.kind }
func (n *Node) Context() *cobparse.Context { return n.ctx }
func (n *Node) Parent() *Node { return n.parent }

// Pos returns the source position of the context this node was built
// from, or the zero Pos if the node has no context (Program, the root).
func (n *Node) Pos() cobpos.Pos {
	if n.ctx == nil {
		return cobpos.Pos{}
	}
	return n.ctx.Pos
}

func (n *Node) setAttr(key, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = value
}

// UnownedContextError reports that find_owner walked off the top of the
// parent chain without finding a registered node of the requested kind.
// It is a Structural error: a mismatch between grammar and builder, and a
// builder bug rather than anything a source program could trigger.
type UnownedContextError struct {
	Pos cobpos.Pos
	WantKind Kind
}

func (e UnownedContextError) Error() string {
	return fmt.Sprintf("%s: no enclosing %s found for this context (builder/grammar mismatch)", e.Pos, e.WantKind)
}

// DuplicateDefinitionError is a Semantic diagnostic : two
// sibling names collide within a scope where requires
// uniqueness (data items within a record, paragraphs within a section,
// files within a program unit). The build completes regardless; this is
// recorded for downstream tools to act on.
type DuplicateDefinitionError struct {
	Pos cobpos.Pos
	Name string
	FirstPos cobpos.Pos
}

func (e DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("%s: %q already defined at %s", e.Pos, e.Name, e.FirstPos)
}
