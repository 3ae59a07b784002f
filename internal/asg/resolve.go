package asg

import "strings"

// resolveDataName implements step 2: "scan by declared name,
// then by qualified name when OF/IN qualifiers are present; qualification
// resolves bottom-up through enclosing record groups." It returns the
// single resolved node, or nil plus every still-viable candidate when the
// qualification (or its absence) leaves more than one data item with the
// same name — "both candidates are attached to the
// placeholder; consumers decide."
func resolveDataName(unit *Node, name string, qualifiers []string) (*Node, []*Node) {
	dataDiv := firstChild(unit, KindProgramUnit, KindDataDivision)
	if dataDiv == nil {
		return nil, nil
	}
	var candidates []*Node
	walkDataItems(dataDiv, func(n *Node) {
		if strings.EqualFold(n.Name, name) {
			candidates = append(candidates, n)
		}
	})
	if len(qualifiers) > 0 {
		candidates = filterByQualifiers(candidates, qualifiers)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return nil, candidates
}

// filterByQualifiers keeps only candidates whose ancestor chain contains
// every qualifier name, searched bottom-up (nearest enclosing group first).
func filterByQualifiers(candidates []*Node, qualifiers []string) []*Node {
	var kept []*Node
	for _, c := range candidates {
		if hasAncestorsNamed(c, qualifiers) {
			kept = append(kept, c)
		}
	}
	return kept
}

func hasAncestorsNamed(n *Node, qualifiers []string) bool {
	for _, q := range qualifiers {
		found := false
		for a := n.Parent(); a != nil; a = a.Parent() {
			if strings.EqualFold(a.Name, q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// resolveProcedureName implements step 1: a PERFORM target is
// looked up among the current program unit's own sections and paragraphs
// only (procedure names, never data names).
func resolveProcedureName(unit *Node, name string) (*Node, []*Node) {
	procDiv := firstChild(unit, KindProgramUnit, KindProcedureDivision)
	if procDiv == nil {
		return nil, nil
	}
	var candidates []*Node
	for _, sec := range procDiv.Children {
		if sec.Kind() != KindProcedureSection {
			continue
		}
		if strings.EqualFold(sec.Name, name) {
			candidates = append(candidates, sec)
		}
		for _, para := range sec.Children {
			if para.Kind() == KindParagraph && strings.EqualFold(para.Name, name) {
				candidates = append(candidates, para)
			}
		}
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return nil, candidates
}
