// Package mood implements the mood transition engine: an immutable graph of
// emotional states, a keyword detector that maps free text onto it, and a
// deterministic simulator that walks the graph while evolving valence and
// energy.
package mood

import (
	"fmt"
	"strings"

	"camelot/internal/numeric"
)

// Neutral is the detector fallback when no keyword matches. It is not a node.
const Neutral = "neutral"

// Range is a closed interval within [0, 1].
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

// Clamp snaps v into the range.
func (r Range) Clamp(v float64) float64 { return numeric.Clamp(v, r.Min, r.Max) }

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool { return numeric.InRange(v, r.Min, r.Max) }

func (r Range) String() string { return fmt.Sprintf("[%.2f, %.2f]", r.Min, r.Max) }

// Step is the per-step delta applied to valence and energy while a node is current.
type Step struct {
	Valence float64 `yaml:"valence" json:"valence"`
	Energy  float64 `yaml:"energy" json:"energy"`
}

// Condition gates an edge. Nil bounds impose no constraint.
type Condition struct {
	MinValence *float64 `yaml:"min_valence,omitempty" json:"minValence,omitempty"`
	MaxValence *float64 `yaml:"max_valence,omitempty" json:"maxValence,omitempty"`
	MinEnergy  *float64 `yaml:"min_energy,omitempty" json:"minEnergy,omitempty"`
	MaxEnergy  *float64 `yaml:"max_energy,omitempty" json:"maxEnergy,omitempty"`
}

// Holds reports whether (valence, energy) satisfies every declared bound.
func (c Condition) Holds(valence, energy float64) bool {
	if c.MinValence != nil && valence < *c.MinValence {
		return false
	}
	if c.MaxValence != nil && valence > *c.MaxValence {
		return false
	}
	if c.MinEnergy != nil && energy < *c.MinEnergy {
		return false
	}
	if c.MaxEnergy != nil && energy > *c.MaxEnergy {
		return false
	}
	return true
}

// IsZero reports whether the condition declares no bounds.
func (c Condition) IsZero() bool {
	return c.MinValence == nil && c.MaxValence == nil && c.MinEnergy == nil && c.MaxEnergy == nil
}

// String renders the declared bounds, e.g. "valence>=0.30 energy<=0.60".
func (c Condition) String() string {
	var parts []string
	add := func(name, op string, b *float64) {
		if b != nil {
			parts = append(parts, fmt.Sprintf("%s%s%.2f", name, op, *b))
		}
	}
	add("valence", ">=", c.MinValence)
	add("valence", "<=", c.MaxValence)
	add("energy", ">=", c.MinEnergy)
	add("energy", "<=", c.MaxEnergy)
	if len(parts) == 0 {
		return "always"
	}
	return strings.Join(parts, " ")
}

// Bound is a convenience for building conditions in Go code.
func Bound(v float64) *float64 { return &v }

// Edge is a directed, conditional transition to Target.
type Edge struct {
	Target string    `yaml:"target" json:"target"`
	When   Condition `yaml:"when,omitempty" json:"when"`
}

// Node is a named emotional state.
type Node struct {
	ID       string   `yaml:"id" json:"id"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Valence  Range    `yaml:"valence" json:"valence"`
	Energy   Range    `yaml:"energy" json:"energy"`
	Step     Step     `yaml:"step" json:"step"`
	Edges    []Edge   `yaml:"edges,omitempty" json:"edges"`
}

// IsFinal reports whether the node has no outgoing edges.
func (n Node) IsFinal() bool { return len(n.Edges) == 0 }

// Targets returns the edge targets in declared order. Never nil.
func (n Node) Targets() []string {
	out := make([]string, 0, len(n.Edges))
	for _, e := range n.Edges {
		out = append(out, e.Target)
	}
	return out
}

func (n Node) clone() Node {
	c := n
	c.Keywords = append([]string(nil), n.Keywords...)
	c.Edges = make([]Edge, len(n.Edges))
	for i, e := range n.Edges {
		c.Edges[i] = Edge{Target: e.Target, When: e.When.clone()}
	}
	return c
}

func (c Condition) clone() Condition {
	cp := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	return Condition{
		MinValence: cp(c.MinValence),
		MaxValence: cp(c.MaxValence),
		MinEnergy:  cp(c.MinEnergy),
		MaxEnergy:  cp(c.MaxEnergy),
	}
}
