package asg

import (
	"strings"

	"github.com/cobol85/cobolasg/internal/cobparse"
	"github.com/cobol85/cobolasg/internal/cobpos"
)

type levelFrame struct {
	level int
	node *Node
}

// passDataDivision1 is pass 2: creates data description
// entries with level-number hierarchy (01/77 start records; 02-49 nest; 66
// renames; 88 condition names), fixing parent/child "by level comparison
// using a stack machine: on entry with level L, pop the stack while
// top.level >= L, then set parent = stack top, push self."
func (b *Builder) passDataDivision1(unit *Node) error {
	for _, dataDiv := range childrenOfKind(unit, KindProgramUnit, KindDataDivision) {
		for _, fileSec := range childrenOfKind(dataDiv, -1, KindFileSection) {
			for _, fd := range fileSec.Children {
				if fd.Kind() == KindFileDescriptor {
					b.buildLevelTree(fd)
				}
			}
		}
		for _, sec := range childrenOfKind(dataDiv, -1, KindWorkingStorageSection) {
			b.buildLevelTree(sec)
		}
		for _, sec := range childrenOfKind(dataDiv, -1, KindLinkageSection) {
			b.buildLevelTree(sec)
		}
	}
	return nil
}

// childrenOfKind returns the nodes of kind want found one level below
// owner's children of kind parentKind (like firstChild's through); -1 means
// owner's direct children of kind want.
func childrenOfKind(owner *Node, parentKind Kind, want Kind) []*Node {
	if parentKind >= 0 {
		var out []*Node
		for _, c := range owner.Children {
			if c.Kind() == parentKind {
				out = append(out, childrenOfKind(c, -1, want)...)
			}
		}
		return out
	}
	var out []*Node
	for _, c := range owner.Children {
		if c.Kind() == want {
			out = append(out, c)
		}
	}
	return out
}

// buildLevelTree runs the stack machine over owner's flat
// cobparse.DataDescriptionCtx children, materializing the nested
// KindDataItem/KindRenamesItem/KindConditionName tree under owner.
//
// Level 88 condition-names attach to the current top-of-stack item without
// altering the stack (they never own subordinates and never pop
// anything). Level 66 RENAMES entries are COBOL's odd one out: they are
// record-level aliases, not subordinate to whatever field happened to be
// pushed last, so they reset to owner's own level and do not themselves
// get pushed.
func (b *Builder) buildLevelTree(owner *Node) {
	ctx := owner.Context()
	if ctx == nil {
		return
	}
	var stack []levelFrame
	seen := make(map[*Node]map[string]cobpos.Pos)

	for _, entryCtx := range ctx.Children {
		if entryCtx.Kind != cobparse.DataDescriptionCtx {
			continue
		}
		level := entryCtx.Level

		var kind Kind
		switch level {
		case 88:
			kind = KindConditionName
		case 66:
			kind = KindRenamesItem
		default:
			kind = KindDataItem
		}

		switch level {
		case 88:
			// no stack change
		case 66:
			stack = nil
		default:
			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
		}

		parent := owner
		if len(stack) > 0 {
			parent = stack[len(stack)-1].node
		}

		node := b.addChild(parent, entryCtx, kind)
		node.Name = entryCtx.Name
		node.Level = level
		if len(entryCtx.Attrs) > 0 {
			node.Attrs = make(map[string]string, len(entryCtx.Attrs))
			for k, v := range entryCtx.Attrs {
				node.Attrs[k] = v
			}
		}
		if values, ok := entryCtx.Lists["values"]; ok {
			node.Lists = map[string][]string{"values": values}
		}

		b.checkDuplicateName(seen, parent, node)

		if level != 88 && level != 66 {
			stack = append(stack, levelFrame{level: level, node: node})
		}
	}
}

// checkDuplicateName enforces that a data item's name is unique within
// its enclosing record and level-number hierarchy, recording a violation
// as a Semantic diagnostic rather than a fatal error. FILLER is COBOL's
// deliberate exception: it may repeat freely.
func (b *Builder) checkDuplicateName(seen map[*Node]map[string]cobpos.Pos, parent *Node, node *Node) {
	if node.Name == "" || strings.EqualFold(node.Name, "FILLER") {
		return
	}
	scope := seen[parent]
	if scope == nil {
		scope = make(map[string]cobpos.Pos)
		seen[parent] = scope
	}
	key := strings.ToUpper(node.Name)
	if firstPos, dup := scope[key]; dup {
		b.diagnose(DuplicateDefinitionError{Pos: node.Pos(), Name: node.Name, FirstPos: firstPos})
		return
	}
	scope[key] = node.Pos()
}
