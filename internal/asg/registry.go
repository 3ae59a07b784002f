package asg

import "github.com/cobol85/cobolasg/internal/cobparse"

// Registry is the element registry: an associative structure mapping
// parse-tree contexts to the ASG node created from them. A Registry is
// scoped to one Program — every program must obtain a fresh registry —
// never a process-wide singleton.
type Registry struct {
	byCtx map[*cobparse.Context]*Node
	frozen bool
}

// NewRegistry returns an empty, writable Registry for a single Program
// build.
func NewRegistry() *Registry {
	return &Registry{byCtx: make(map[*cobparse.Context]*Node)}
}

// Register binds ctx to n. Called exactly once per node, immediately after
// node construction: by addChild, and by Build for the KindProgram root.
func (r *Registry) Register(ctx *cobparse.Context, n *Node) {
	if r.frozen {
		panic("asg: Registry written after Freeze")
	}
	if ctx == nil {
		return
	}
	r.byCtx[ctx] = n
}

// Lookup is the registry half of the registry-bijection invariant: for
// every ASG node with attached context c, Lookup(c) returns that node.
func (r *Registry) Lookup(ctx *cobparse.Context) (*Node, bool) {
	n, ok := r.byCtx[ctx]
	return n, ok
}

// Freeze marks the registry read-only once all builder passes complete.
func (r *Registry) Freeze() { r.frozen = true }

// FindOwner implements find_owner: walk ctx's parse-tree ancestry looking
// for the nearest enclosing context already registered as a node of kind
// want.
func FindOwner(reg *Registry, ctx *cobparse.Context, want Kind) (*Node, error) {
	for p := ctx.Parent; p != nil; p = p.Parent {
		if n, ok := reg.Lookup(p); ok && n.kind == want {
			return n, nil
		}
	}
	return nil, UnownedContextError{Pos: ctx.Pos, WantKind: want}
}

// addChild is the uniform add<Clause> contract: construct a new node bound
// to ctx, register it, append it to owner's child list, and return it so
// the caller may recurse into sub-clauses. A hundred clause-specific
// visitor methods all reduce to a call to this plus whatever Attrs/Lists
// population the clause needs.
func (b *Builder) addChild(owner *Node, ctx *cobparse.Context, kind Kind) *Node {
	child := &Node{id: b.nextID(), kind: kind, ctx: ctx, parent: owner}
	b.reg.Register(ctx, child)
	owner.Children = append(owner.Children, child)
	return child
}
