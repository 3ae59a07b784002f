package asg

import (
	"strconv"

	"github.com/alecthomas/repr"
)

// view is an exported, acyclic projection of Node suitable for
// alecthomas/repr to pretty-print (repr walks exported fields via
// reflection; Node's id/ctx/parent stay unexported on purpose so a dump
// never tries to walk back up the tree it is printing). This mirrors the
// habit of building a dedicated printable row projection rather than
// handing *sql.Rows to repr directly.
type view struct {
	ID int
	Kind string
	Name string
	Level int `repr:",omitempty"`
	Attrs map[string]string `repr:",omitempty"`
	Lists map[string][]string `repr:",omitempty"`
	Target string `repr:",omitempty"`
	RawName string `repr:",omitempty"`
	Candidates []string `repr:",omitempty"`
	Dialect string `repr:",omitempty"`
	RawText string `repr:",omitempty"`
	Children []*view `repr:",omitempty"`
}

func toView(n *Node) *view {
	v := &view{
		ID: n.ID(),
		Kind: n.Kind().String(),
		Name: n.Name,
		Level: n.Level,
		Attrs: n.Attrs,
		Lists: n.Lists,
		RawName: n.RawName,
		Dialect: n.Dialect,
		RawText: n.RawText,
	}
	if n.Target != nil {
		v.Target = n.Target.Kind().String() + "#" + strconv.Itoa(n.Target.ID())
	}
	for _, c := range n.Candidates {
		v.Candidates = append(v.Candidates, c.Kind().String()+"#"+strconv.Itoa(c.ID()))
	}
	for _, c := range n.Children {
		v.Children = append(v.Children, toView(c))
	}
	return v
}

// Dump pretty-prints n and its subtree with github.com/alecthomas/repr, the
// same library the prior design uses (sqltest/querydump.go) to dump row sets
// for ad-hoc inspection; here it dumps an ASG subtree for the CLI's `show`
// command.
func Dump(n *Node) string {
	return repr.String(toView(n), repr.Indent(" "))
}
