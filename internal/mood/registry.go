package mood

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Registry is the immutable mood graph. It is built once, validated, and then
// shared by reference; accessors hand out copies so callers cannot mutate it.
type Registry struct {
	name  string
	nodes []Node         // declared order; detection iterates in this order
	index map[string]int // id -> position in nodes
}

// NewRegistry validates nodes and returns a registry over private copies of
// them. Any integrity problem is reported as an error wrapping ErrConfiguration.
func NewRegistry(name string, nodes []Node) (*Registry, error) {
	r := &Registry{
		name:  name,
		nodes: make([]Node, 0, len(nodes)),
		index: make(map[string]int, len(nodes)),
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: at least one node is required", ErrConfiguration)
	}

	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node id is required", ErrConfiguration)
		}
		if !validID(n.ID) {
			return nil, fmt.Errorf("%w: node id %q must be a lowercase letter followed by lowercase letters, digits or underscores", ErrConfiguration, n.ID)
		}
		if _, dup := r.index[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrConfiguration, n.ID)
		}
		r.index[n.ID] = len(r.nodes)
		r.nodes = append(r.nodes, n.clone())
	}

	for i := range r.nodes {
		if err := r.validateNode(&r.nodes[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) validateNode(n *Node) error {
	for _, kw := range n.Keywords {
		if kw == "" {
			return fmt.Errorf("%w: node %q has an empty keyword", ErrConfiguration, n.ID)
		}
		if kw != strings.ToLower(kw) || strings.IndexFunc(kw, unicode.IsSpace) >= 0 {
			return fmt.Errorf("%w: node %q keyword %q must be a single lowercase token", ErrConfiguration, n.ID, kw)
		}
	}
	if err := validateRange(n.Valence); err != nil {
		return fmt.Errorf("%w: node %q valence: %v", ErrConfiguration, n.ID, err)
	}
	if err := validateRange(n.Energy); err != nil {
		return fmt.Errorf("%w: node %q energy: %v", ErrConfiguration, n.ID, err)
	}
	if !finite(n.Step.Valence) || !finite(n.Step.Energy) {
		return fmt.Errorf("%w: node %q step (%v, %v) must be finite", ErrConfiguration, n.ID, n.Step.Valence, n.Step.Energy)
	}

	satisfiable := false
	for _, e := range n.Edges {
		if _, ok := r.index[e.Target]; !ok {
			return fmt.Errorf("%w: node %q has an edge to unknown target %q", ErrConfiguration, n.ID, e.Target)
		}
		if err := validateCondition(e.When); err != nil {
			return fmt.Errorf("%w: edge %s -> %s: %v", ErrConfiguration, n.ID, e.Target, err)
		}
		if reachable(n, e.When) {
			satisfiable = true
		}
	}
	if len(n.Edges) > 0 && !satisfiable {
		return fmt.Errorf("%w: node %q: step (%+.2f, %+.2f) can never satisfy any outgoing edge",
			ErrConfiguration, n.ID, n.Step.Valence, n.Step.Energy)
	}
	return nil
}

// validID accepts [a-z][a-z0-9_]*, which is also a valid Mermaid node id.
func validID(id string) bool {
	for i, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return id != ""
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// inUnit reports whether v lies in [0, 1]. NaN is rejected.
func inUnit(v float64) bool { return v >= 0 && v <= 1 }

func validateRange(r Range) error {
	if !inUnit(r.Min) || !inUnit(r.Max) {
		return fmt.Errorf("range %s outside [0, 1]", r)
	}
	if r.Min > r.Max {
		return fmt.Errorf("range %s has min > max", r)
	}
	return nil
}

func validateCondition(c Condition) error {
	for _, b := range []*float64{c.MinValence, c.MaxValence, c.MinEnergy, c.MaxEnergy} {
		if b != nil && !inUnit(*b) {
			return fmt.Errorf("bound %.2f outside [0, 1]", *b)
		}
	}
	if c.MinValence != nil && c.MaxValence != nil && *c.MinValence > *c.MaxValence {
		return fmt.Errorf("min_valence > max_valence")
	}
	if c.MinEnergy != nil && c.MaxEnergy != nil && *c.MinEnergy > *c.MaxEnergy {
		return fmt.Errorf("min_energy > max_energy")
	}
	return nil
}

// reachable reports whether some in-range state of n, advanced by one step,
// can satisfy c.
func reachable(n *Node, c Condition) bool {
	return overlaps(n.Valence.Min+n.Step.Valence, n.Valence.Max+n.Step.Valence, c.MinValence, c.MaxValence) &&
		overlaps(n.Energy.Min+n.Step.Energy, n.Energy.Max+n.Step.Energy, c.MinEnergy, c.MaxEnergy)
}

func overlaps(lo, hi float64, lower, upper *float64) bool {
	blo, bhi := math.Inf(-1), math.Inf(1)
	if lower != nil {
		blo = *lower
	}
	if upper != nil {
		bhi = *upper
	}
	return lo <= bhi && blo <= hi
}

// Name returns the graph name.
func (r *Registry) Name() string { return r.name }

// Len returns the number of nodes.
func (r *Registry) Len() int { return len(r.nodes) }

// Has reports whether id is a registered mood.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Lookup returns a copy of the node with the given id.
func (r *Registry) Lookup(id string) (Node, error) {
	n, ok := r.node(id)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrUnknownMood, id)
	}
	return n.clone(), nil
}

// IDs returns the mood ids in declared order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		ids[i] = n.ID
	}
	return ids
}

// Nodes returns copies of all nodes in declared order.
func (r *Registry) Nodes() []Node {
	out := make([]Node, len(r.nodes))
	for i, n := range r.nodes {
		out[i] = n.clone()
	}
	return out
}

// node returns the internal node without copying. Callers must not mutate it.
func (r *Registry) node(id string) (*Node, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return &r.nodes[i], true
}
