package asg

import "github.com/cobol85/cobolasg/internal/cobparse"

// newChild creates a node that has no parse-tree context of its own (never
// registered, since registry bijection only ever claims "every
// ASG node WITH an attached context"). ProgramUnit is the one case in this
// metamodel: gives it its own owned node distinct from
// CompilationUnit, but cobparse emits a single ProgramUnitCtx production
// for both, so ProgramUnit is a pure structural wrapper bound to nothing.
func (b *Builder) newChild(owner *Node, kind Kind) *Node {
	child := &Node{id: b.nextID(), kind: kind, parent: owner}
	owner.Children = append(owner.Children, child)
	return child
}

// passProgramUnit is pass 1: "creates ProgramUnit, the four
// divisions, and their top-level sections/paragraphs; establishes the
// skeleton every later pass navigates." It is also the compilation-unit
// collector : it allocates one CompilationUnit per
// PROGRAM-ID found under root.
func (b *Builder) passProgramUnit(program *Node, root *cobparse.Context) error {
	for _, unitCtx := range root.Children {
		if unitCtx.Kind != cobparse.ProgramUnitCtx {
			continue
		}
		cu := b.addChild(program, unitCtx, KindCompilationUnit)
		pu := b.newChild(cu, KindProgramUnit)

		for _, divCtx := range unitCtx.Children {
			switch divCtx.Kind {
			case cobparse.IdentificationDivisionCtx:
				idDiv := b.addChild(pu, divCtx, KindIdentificationDivision)
				idDiv.Name = divCtx.Name
				if docstring, ok := divCtx.Lists["docstring"]; ok {
					idDiv.Docstring = docstring
					idDiv.Metadata, _ = parseDocblockYaml(docstring)
				}
				cu.Name = idDiv.Name

			case cobparse.EnvironmentDivisionCtx:
				envDiv := b.addChild(pu, divCtx, KindEnvironmentDivision)
				for _, ioCtx := range divCtx.Children {
					if ioCtx.Kind != cobparse.InputOutputSectionCtx {
						continue
					}
					for _, fcCtx := range ioCtx.Children {
						if fcCtx.Kind == cobparse.FileControlParagraphCtx {
							b.addChild(envDiv, fcCtx, KindFileControlParagraph)
						}
					}
				}

			case cobparse.DataDivisionCtx:
				dataDiv := b.addChild(pu, divCtx, KindDataDivision)
				for _, secCtx := range divCtx.Children {
					switch secCtx.Kind {
					case cobparse.FileSectionCtx:
						fileSec := b.addChild(dataDiv, secCtx, KindFileSection)
						for _, fdCtx := range secCtx.Children {
							if fdCtx.Kind == cobparse.FileDescriptorCtx {
								b.addChild(fileSec, fdCtx, KindFileDescriptor)
							}
						}
					case cobparse.WorkingStorageSectionCtx:
						b.addChild(dataDiv, secCtx, KindWorkingStorageSection)
					case cobparse.LinkageSectionCtx:
						b.addChild(dataDiv, secCtx, KindLinkageSection)
					}
				}

			case cobparse.ProcedureDivisionCtx:
				b.addChild(pu, divCtx, KindProcedureDivision)
			}
		}
	}
	return nil
}
