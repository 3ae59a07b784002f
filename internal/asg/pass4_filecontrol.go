package asg

import "github.com/cobol85/cobolasg/internal/cobpos"

// passFileControl is pass 4: "attaches SELECT clauses and
// their sub-clauses to file-control entries created in the environment
// division." The FileControlParagraph container node itself was already
// created as part of pass 1's skeleton; this pass populates its
// KindSelectEntry children from the cobparse.SelectEntryCtx siblings
// parsed eagerly by the front end.
func (b *Builder) passFileControl(unit *Node) error {
	envDiv := firstChild(unit, KindProgramUnit, KindEnvironmentDivision)
	if envDiv == nil {
		return nil
	}
	for _, fc := range envDiv.Children {
		if fc.Kind() != KindFileControlParagraph {
			continue
		}
		ctx := fc.Context()
		if ctx == nil {
			continue
		}
		seen := make(map[string]cobpos.Pos)
		for _, selCtx := range ctx.Children {
			sel := b.addChild(fc, selCtx, KindSelectEntry)
			sel.Name = selCtx.Name
			if len(selCtx.Attrs) > 0 {
				sel.Attrs = make(map[string]string, len(selCtx.Attrs))
				for k, v := range selCtx.Attrs {
					sel.Attrs[k] = v
				}
			}
			key := upper(sel.Name)
			if key != "" {
				if firstPos, dup := seen[key]; dup {
					b.diagnose(DuplicateDefinitionError{Pos: sel.Pos(), Name: sel.Name, FirstPos: firstPos})
				} else {
					seen[key] = sel.Pos()
				}
			}
		}
	}
	return nil
}
