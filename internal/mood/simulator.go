package mood

import (
	"fmt"

	"camelot/internal/numeric"
)

// DefaultMaxSteps is the step budget callers use when none is given.
const DefaultMaxSteps = 1

// resultPrecision is the number of decimals kept on reported attributes.
const resultPrecision = 2

// Result is the outcome of a simulation. Field names on the wire match the
// tool output consumed by existing clients.
type Result struct {
	Path        []string `json:"path"`
	CurrentMood string   `json:"currentMood"`
	Valence     float64  `json:"valence"`
	Energy      float64  `json:"energy"`
	IsFinalMood bool     `json:"isFinalMood"`
	NextMoods   []string `json:"nextMood"`
	Steps       int      `json:"steps"`
	Stuck       bool     `json:"stuck"`
}

// Simulator advances a mood through the registry graph. It holds no
// per-call state and is safe for concurrent use.
type Simulator struct {
	reg      *Registry
	observer StepObserver
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithObserver attaches an observer that receives step events.
func WithObserver(obs StepObserver) Option {
	return func(s *Simulator) {
		s.observer = obs
	}
}

// NewSimulator returns a simulator over reg.
func NewSimulator(reg *Registry, opts ...Option) *Simulator {
	s := &Simulator{reg: reg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transition starts at the midpoint of start's ranges and takes up to
// maxSteps steps. Each step adds the current node's evolution step to the
// attributes and moves along the first edge, in declared order, whose
// condition holds on the unclamped values and whose target range accepts
// them once clamped. The walk stops early when no edge is eligible.
// A negative maxSteps is treated as zero.
func (s *Simulator) Transition(start string, maxSteps int) (*Result, error) {
	node, ok := s.reg.node(start)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMood, start)
	}

	valence := node.Valence.Clamp(node.Valence.Mid())
	energy := node.Energy.Clamp(node.Energy.Mid())
	path := []string{start}
	emit(s.observer, StepEvent{Type: EventStart, From: start, Valence: valence, Energy: energy})

	steps := 0
	stuck := false
	for steps < maxSteps {
		pv := valence + node.Step.Valence
		pe := energy + node.Step.Energy

		target, found := s.selectEdge(steps+1, node, pv, pe)
		if !found {
			stuck = !node.IsFinal()
			emit(s.observer, StepEvent{Type: EventStuck, Step: steps + 1, From: node.ID, Valence: valence, Energy: energy})
			break
		}

		valence = target.Valence.Clamp(valence + node.Step.Valence)
		energy = target.Energy.Clamp(energy + node.Step.Energy)
		steps++
		emit(s.observer, StepEvent{Type: EventTransition, Step: steps, From: node.ID, To: target.ID, Valence: valence, Energy: energy})

		path = append(path, target.ID)
		node = target
	}

	emit(s.observer, StepEvent{Type: EventDone, Step: steps, From: node.ID, Valence: valence, Energy: energy})

	return &Result{
		Path:        path,
		CurrentMood: node.ID,
		Valence:     numeric.Round(valence, resultPrecision),
		Energy:      numeric.Round(energy, resultPrecision),
		IsFinalMood: node.IsFinal(),
		NextMoods:   node.Targets(),
		Steps:       steps,
		Stuck:       stuck,
	}, nil
}

// selectEdge returns the target of the first eligible edge of node for the
// potential attributes (pv, pe).
func (s *Simulator) selectEdge(step int, node *Node, pv, pe float64) (*Node, bool) {
	for _, e := range node.Edges {
		target, ok := s.reg.node(e.Target)
		if !ok {
			// NewRegistry rejects dangling targets; an unknown one here means
			// the registry was built some other way.
			panic(fmt.Sprintf("mood: edge %s -> %s references an unknown node", node.ID, e.Target))
		}

		ev := StepEvent{Type: EventEdgeEvaluate, Step: step, From: node.ID, To: e.Target, Valence: pv, Energy: pe}
		switch {
		case !e.When.Holds(pv, pe):
			ev.Reason = RejectCondition
		case !inTargetRange(target, pv, pe):
			ev.Reason = RejectTargetRange
		default:
			ev.Eligible = true
		}
		emit(s.observer, ev)

		if ev.Eligible {
			return target, true
		}
	}
	return nil, false
}

// inTargetRange clamps the potential values into target's ranges and checks
// that they land inside them. With a well-formed range this always holds; it
// is the guard against a target whose range is malformed.
func inTargetRange(target *Node, pv, pe float64) bool {
	cv := target.Valence.Clamp(pv)
	ce := target.Energy.Clamp(pe)
	return target.Valence.Contains(cv) && target.Energy.Contains(ce)
}
