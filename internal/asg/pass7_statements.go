package asg

import (
	"strings"

	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/copybook"
)

// passStatements is pass 7: fills statement operands, resolving every
// data-name and procedure-name reference to the node created in earlier
// passes, producing either a resolved link or an unresolved-reference
// placeholder.
//
// It also performs EXEC-block rehydration: a statement whose sole operand
// is the placeholder literal internal/copybook spliced in for an
// EXEC...END-EXEC block is retagged from KindStatement to KindExecBlock
// and given back its RawText, matched by the placeholder identifier rather
// than source position (expansion can shift line numbers in ways a bare
// position comparison would miss).
func (b *Builder) passStatements(unit *Node, execBlocks []copybook.ExecBlock) {
	procDiv := firstChild(unit, KindProgramUnit, KindProcedureDivision)
	if procDiv == nil {
		return
	}
	execByPlaceholder := make(map[string]copybook.ExecBlock, len(execBlocks))
	for _, eb := range execBlocks {
		execByPlaceholder[eb.Placeholder] = eb
	}

	var stmts []*Node
	var collect func(*Node)
	collect = func(n *Node) {
		for _, c := range n.Children {
			if c.Kind() == KindStatement {
				stmts = append(stmts, c)
				collect(c)
			}
		}
	}
	collect(procDiv)

	for _, stmt := range stmts {
		b.fillStatement(unit, stmt, execByPlaceholder)
	}
}

func (b *Builder) fillStatement(unit *Node, stmt *Node, execByPlaceholder map[string]copybook.ExecBlock) {
	ctx := stmt.Context()
	if ctx == nil {
		return
	}

	if stmt.Name == "call" && len(ctx.Operands) >= 1 && ctx.Operands[0].Literal {
		placeholder := strings.Trim(ctx.Operands[0].Name, `"`)
		if eb, ok := execByPlaceholder[placeholder]; ok {
			stmt.kind = KindExecBlock
			stmt.Dialect = eb.Dialect
			stmt.RawText = eb.RawText
			return
		}
	}

	switch stmt.Name {
	case "perform":
		b.resolvePerformTargets(unit, stmt, ctx.Operands)
	default:
		b.resolveOperands(unit, stmt, ctx.Operands)
	}
}

// resolveOperands fills stmt's data-name operands (DISPLAY, MOVE, CALL
// USING,...): literal operands are recorded verbatim in Lists["literals"];
// identifier operands each get an owned KindDataReference or
// KindUnresolvedReference child carrying the resolution outcome. A
// cross-reference that cannot be resolved is recorded as an unresolved
// placeholder, never silently dropped.
func (b *Builder) resolveOperands(unit *Node, stmt *Node, operands []*cobparse.Context) {
	for _, opCtx := range operands {
		if opCtx.Literal {
			stmt.Lists = appendList(stmt.Lists, "literals", opCtx.Name)
			continue
		}
		target, candidates := resolveDataName(unit, opCtx.Name, opCtx.Qualifiers)
		ref := b.addChild(stmt, opCtx, refKind(target))
		ref.Name = opCtx.Name
		ref.Qualifiers = opCtx.Qualifiers
		if target != nil {
			ref.Target = target
			continue
		}
		ref.RawName = opCtx.Name
		ref.Candidates = candidates
		b.diagnose(UnresolvedReferenceError{Pos: opCtx.Pos, RawName: opCtx.Name, Clause: strings.ToUpper(stmt.Name)})
	}
}

// resolvePerformTargets resolves PERFORM's paragraph-name (and optional
// THRU paragraph-name) operands against the local paragraph/section of the
// current program unit (procedure names only).
func (b *Builder) resolvePerformTargets(unit *Node, stmt *Node, operands []*cobparse.Context) {
	for _, opCtx := range operands {
		target, candidates := resolveProcedureName(unit, opCtx.Name)
		kind := KindProcedureReference
		if target == nil {
			kind = KindUnresolvedReference
		}
		ref := b.addChild(stmt, opCtx, kind)
		ref.Name = opCtx.Name
		if target != nil {
			ref.Target = target
			continue
		}
		ref.RawName = opCtx.Name
		ref.Candidates = candidates
		b.diagnose(UnresolvedReferenceError{Pos: opCtx.Pos, RawName: opCtx.Name, Clause: "PERFORM"})
	}
}

func refKind(target *Node) Kind {
	if target != nil {
		return KindDataReference
	}
	return KindUnresolvedReference
}

func appendList(lists map[string][]string, key, value string) map[string][]string {
	if lists == nil {
		lists = make(map[string][]string)
	}
	lists[key] = append(lists[key], value)
	return lists
}
