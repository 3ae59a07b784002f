package asg

import "strings"

// passDataDivision2 is pass 3: "resolves inter-entry
// references: REDEFINES, OCCURS-DEPENDING-ON, and condition-name value
// tables. Requires pass 1 complete so that all referenceable names exist."
//
// REDEFINES and OCCURS DEPENDING ON both reference another data item by
// bare name (never qualified) within the same program unit's data
// division, so resolution here is a flat by-name lookup rather than the
// full qualified lookup defines for statement operands.
// Condition-name value tables need no further resolution: pass 2 already
// attached the VALUE/VALUES literal list verbatim to each KindConditionName
// node's Lists["values"].
func (b *Builder) passDataDivision2(unit *Node) {
	dataDiv := firstChild(unit, KindProgramUnit, KindDataDivision)
	if dataDiv == nil {
		return
	}
	byName := make(map[string][]*Node)
	walkDataItems(dataDiv, func(n *Node) {
		if n.Name != "" {
			key := strings.ToUpper(n.Name)
			byName[key] = append(byName[key], n)
		}
	})

	walkDataItems(dataDiv, func(n *Node) {
		if redef, ok := n.Attrs["redefines"]; ok {
			n.Target = resolveFlatName(byName, redef, n)
			if n.Target == nil {
				b.diagnose(unresolvedDataName(n, redef, "REDEFINES"))
			}
		}
		if dep, ok := n.Attrs["occurs_depending_on"]; ok {
			target := resolveFlatName(byName, dep, n)
			if target == nil {
				b.diagnose(unresolvedDataName(n, dep, "OCCURS DEPENDING ON"))
			} else if n.Candidates == nil {
				// Stashed separately from Target (which REDEFINES already
				// claims); OccursDependingOn is read back out of Attrs by
				// consumers wanting the name, and out of Candidates[0] when
				// they want the resolved node, keeping Node's shape from
				// growing a field for every single-use cross-reference.
				n.Candidates = []*Node{target}
			}
		}
	})
}

// firstChild finds the first descendant of owner with the given kind,
// searching only the direct-child chain named by the ASG's own nesting
// (ProgramUnit -> DataDivision), never a full subtree scan.
func firstChild(owner *Node, through Kind, want Kind) *Node {
	for _, c := range owner.Children {
		if c.Kind() == through {
			for _, gc := range c.Children {
				if gc.Kind() == want {
					return gc
				}
			}
		}
	}
	return nil
}

// walkDataItems visits every KindDataItem/KindRenamesItem/KindConditionName
// node reachable under dataDiv (FILE SECTION's FDs, WORKING-STORAGE,
// LINKAGE), depth-first.
func walkDataItems(dataDiv *Node, visit func(*Node)) {
	var walk func(*Node)
	walk = func(n *Node) {
		switch n.Kind() {
		case KindDataItem, KindRenamesItem, KindConditionName:
			visit(n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, sec := range dataDiv.Children {
		walk(sec)
	}
}

func resolveFlatName(byName map[string][]*Node, name string, from *Node) *Node {
	candidates := byName[strings.ToUpper(name)]
	for _, c := range candidates {
		if c != from {
			return c
		}
	}
	return nil
}

func unresolvedDataName(from *Node, rawName, clause string) error {
	return UnresolvedReferenceError{Pos: from.Pos(), RawName: rawName, Clause: clause}
}
