package mood

import (
	"fmt"
	"strings"
)

// Render generates a Mermaid flowchart of the registry. Edges are labelled
// with their declared order and condition; nodes without edges are listed on
// their own so terminal moods still appear. Node ids are restricted by
// NewRegistry to characters Mermaid accepts verbatim.
func Render(reg *Registry) string {
	var b strings.Builder
	b.WriteString("graph LR\n")
	for _, n := range reg.nodes {
		fmt.Fprintf(&b, "    %s[\"%s<br/>v %s e %s\"]\n", n.ID, n.ID, n.Valence, n.Energy)
	}
	for _, n := range reg.nodes {
		for i, e := range n.Edges {
			fmt.Fprintf(&b, "    %s -->|\"%d: %s\"| %s\n", n.ID, i+1, e.When, e.Target)
		}
	}
	return b.String()
}
