package vocabulary

import (
	"fmt"
	"io"
	"strings"

	"github.com/starford/linkshelf/internal/models"
)

// Node is a tag with its children in the hierarchy.
type Node struct {
	Tag      models.Tag
	Children []*Node
}

// Tree returns the hierarchy rooted at tags without known parents.
// A tag with several parents appears under each of them. Tags reachable
// only through a cycle are not part of the tree.
func (v *Vocabulary) Tree() []*Node {
	children := make(map[string][]string)
	var roots []string
	for _, t := range v.tags {
		hasParent := false
		for _, p := range t.Parents {
			if v.Has(p) {
				children[p] = append(children[p], t.Name)
				hasParent = true
			}
		}
		if !hasParent {
			roots = append(roots, t.Name)
		}
	}

	var build func(name string, path map[string]bool) *Node
	build = func(name string, path map[string]bool) *Node {
		t, _ := v.Lookup(name)
		n := &Node{Tag: t}
		path[name] = true
		for _, c := range children[name] {
			if path[c] {
				continue
			}
			n.Children = append(n.Children, build(c, path))
		}
		delete(path, name)
		return n
	}

	out := make([]*Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r, map[string]bool{}))
	}
	return out
}

// PrintTree writes the hierarchy as an indented list.
func PrintTree(w io.Writer, nodes []*Node) error {
	var walk func(n *Node, depth int) error
	walk = func(n *Node, depth int) error {
		line := strings.Repeat("  ", depth) + "- " + n.Tag.Name
		if n.Tag.Desc != "" {
			line += ": " + n.Tag.Desc
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range nodes {
		if err := walk(n, 0); err != nil {
			return err
		}
	}
	return nil
}
