package asg

import (
	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/cobpos"
)

// passProcedureSkeleton is pass 6: "creates sections,
// paragraphs, and statement skeletons." cobparse parses statement operands
// eagerly in one front-end walk rather than staging them separately, so
// this pass creates the KindProcedureSection/KindParagraph/KindStatement
// nodes; pass 7 (passStatements) is the separate walk that resolves the
// operand references those nodes already carry in their cobparse.Context.
func (b *Builder) passProcedureSkeleton(unit *Node) error {
	procDiv := firstChild(unit, KindProgramUnit, KindProcedureDivision)
	if procDiv == nil {
		return nil
	}
	ctx := procDiv.Context()
	if ctx == nil {
		return nil
	}
	for _, secCtx := range ctx.Children {
		if secCtx.Kind != cobparse.ProcedureSectionCtx {
			continue
		}
		sec := b.addChild(procDiv, secCtx, KindProcedureSection)
		sec.Name = secCtx.Name
		seen := make(map[string]cobpos.Pos)
		for _, paraCtx := range secCtx.Children {
			if paraCtx.Kind != cobparse.ParagraphCtx {
				continue
			}
			para := b.addChild(sec, paraCtx, KindParagraph)
			para.Name = paraCtx.Name
			if key := upper(para.Name); key != "" {
				if firstPos, dup := seen[key]; dup {
					b.diagnose(DuplicateDefinitionError{Pos: para.Pos(), Name: para.Name, FirstPos: firstPos})
				} else {
					seen[key] = para.Pos()
				}
			}
			b.buildStatementSkeletons(para, paraCtx.Children)
		}
	}
	return nil
}

// buildStatementSkeletons creates a KindStatement node for every
// StatementCtx in ctxs, recursing into an IF statement's THEN/ELSE branches
// (cobparse represents each branch as a ParagraphCtx child of the IF's own
// StatementCtx: the THEN branch unnamed, the ELSE branch named "ELSE") so
// nested statements get real ASG nodes too.
func (b *Builder) buildStatementSkeletons(owner *Node, ctxs []*cobparse.Context) {
	for _, stmtCtx := range ctxs {
		if stmtCtx.Kind != cobparse.StatementCtx {
			continue
		}
		stmt := b.addChild(owner, stmtCtx, KindStatement)
		stmt.Name = stmtCtx.Name
		for _, branchCtx := range stmtCtx.Children {
			if branchCtx.Kind == cobparse.ParagraphCtx {
				b.buildStatementSkeletons(stmt, branchCtx.Children)
			}
		}
	}
}
