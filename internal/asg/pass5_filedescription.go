package asg

// passFileDescription is pass 5: "attaches FD/SD clauses to
// file descriptors and cross-links each FD to its SELECT entry by file
// name." The KindFileDescriptor container nodes were created empty in pass
// 1 (their data items were populated in pass 2, interleaved with pass 1's
// creation order per a reference builder, but recorded here since
// their Attrs still need filling and their SELECT cross-link still needs
// resolving); this pass fills both.
func (b *Builder) passFileDescription(unit *Node) error {
	envDiv := firstChild(unit, KindProgramUnit, KindEnvironmentDivision)
	selectByName := make(map[string]*Node)
	if envDiv != nil {
		for _, fc := range envDiv.Children {
			if fc.Kind() != KindFileControlParagraph {
				continue
			}
			for _, sel := range fc.Children {
				if sel.Kind() == KindSelectEntry && sel.Name != "" {
					selectByName[upper(sel.Name)] = sel
				}
			}
		}
	}

	dataDiv := firstChild(unit, KindProgramUnit, KindDataDivision)
	if dataDiv == nil {
		return nil
	}
	for _, fileSec := range dataDiv.Children {
		if fileSec.Kind() != KindFileSection {
			continue
		}
		for _, fd := range fileSec.Children {
			if fd.Kind() != KindFileDescriptor {
				continue
			}
			ctx := fd.Context()
			if ctx != nil {
				fd.Name = ctx.Name
				if len(ctx.Attrs) > 0 {
					fd.Attrs = make(map[string]string, len(ctx.Attrs))
					for k, v := range ctx.Attrs {
						fd.Attrs[k] = v
					}
				}
			}
			if sel, ok := selectByName[upper(fd.Name)]; ok {
				fd.Target = sel
			} else {
				b.diagnose(UnresolvedReferenceError{Pos: fd.Pos(), RawName: fd.Name, Clause: "FD/SELECT cross-link"})
			}
		}
	}
	return nil
}
