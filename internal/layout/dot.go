package layout

import (
	"fmt"
	"io"
)

// ToDot writes the diagram as a Graphviz digraph, coloured by status
func (d *Diagram) ToDot(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph G {\n\trankdir=LR;\n\tnode [shape=box style=filled fontcolor=white];"); err != nil {
		return err
	}

	for _, n := range d.layout.Nodes {
		penwidth := ""
		if n.ID == d.selected {
			penwidth = " penwidth=3"
		}
		if _, err := fmt.Fprintf(
			w,
			`	"%s"[fillcolor="%s"%s];
`,
			n.ID, d.Color(n.ID), penwidth,
		); err != nil {
			return err
		}
	}

	for _, e := range d.layout.Edges {
		if _, ok := d.layout.Curve(e); !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "\t\"%s\" -> \"%s\";\n", e.From, e.To); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}
