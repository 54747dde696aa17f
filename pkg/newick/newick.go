// Package newick serializes arena trees to Newick strings, used by the
// copy-to-clipboard action.
package newick

import (
	"strconv"
	"strings"

	"github.com/enesBerkSakalli/phylo-movies-sub007/pkg/model"
)

// Write renders a tree as a Newick string with branch lengths, terminated
// by a semicolon. The root carries no length. An empty tree renders ";".
func Write(t *model.Tree) string {
	var b strings.Builder
	if t != nil && t.Len() > 0 {
		writeNode(&b, t, t.Root(), true)
	}
	b.WriteByte(';')
	return b.String()
}

func writeNode(b *strings.Builder, t *model.Tree, id int, root bool) {
	n := &t.Nodes[id]
	if !n.IsLeaf() {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, t, c, false)
		}
		b.WriteByte(')')
	}
	b.WriteString(escape(n.Name))
	if !root {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

// escape quotes names containing Newick structural characters or spaces.
func escape(name string) string {
	if name == "" {
		return ""
	}
	if strings.ContainsAny(name, "():;, '\t[]") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return name
}
