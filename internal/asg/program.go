package asg

import (
	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/copybook"
)

// Program is the ASG build result. Its Root is the KindProgram Node, so that
// parent-link traversal from any node terminates there, keeping the tree
// acyclic.
type Program struct {
	Root *Node

	// Diagnostics accumulates every semantic-tier finding: unresolved
	// references, duplicate definitions, REDEFINES/OCCURS mismatches.
	// Structural errors (UnownedContextError) are returned directly from
	// Build instead, since those are fatal builder bugs, not recorded
	// diagnostics.
	Diagnostics []error
}

// Units returns the ordered CompilationUnit nodes.
func (p *Program) Units() []*Node { return p.Root.Children }

// Builder carries the per-Program state that must stay confined to one
// build: the registry, a deterministic node-identity sequence, and the
// diagnostics sink.
type Builder struct {
	reg *Registry
	seq int
	diags []error
}

func newBuilder() *Builder {
	return &Builder{reg: NewRegistry()}
}

func (b *Builder) nextID() int {
	b.seq++
	return b.seq
}

func (b *Builder) diagnose(err error) {
	b.diags = append(b.diags, err)
}

// Build runs the full pass orchestration over a parse tree
// produced by cobparse.Parse and returns the resulting Program.
//
// execBlocks is the preprocessor's Result.ExecBlocks, matched back onto
// CALL-placeholder statements by placeholder identifier.
func Build(root *cobparse.Context, execBlocks []copybook.ExecBlock) (*Program, error) {
	b := newBuilder()

	program := &Node{id: b.nextID(), kind: KindProgram}
	b.reg.Register(root, program)

	if err := b.passProgramUnit(program, root); err != nil {
		return nil, err
	}

	for _, unitCtx := range root.Children {
		if unitCtx.Kind != cobparse.ProgramUnitCtx {
			continue
		}
		unit, ok := b.reg.Lookup(unitCtx)
		if !ok {
			return nil, UnownedContextError{Pos: unitCtx.Pos, WantKind: KindProgramUnit}
		}
		if err := b.passDataDivision1(unit); err != nil {
			return nil, err
		}
		b.passDataDivision2(unit)
		if err := b.passFileControl(unit); err != nil {
			return nil, err
		}
		if err := b.passFileDescription(unit); err != nil {
			return nil, err
		}
		if err := b.passProcedureSkeleton(unit); err != nil {
			return nil, err
		}
		b.passStatements(unit, execBlocks)
	}

	b.reg.Freeze()
	return &Program{Root: program, Diagnostics: b.diags}, nil
}
