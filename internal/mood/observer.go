package mood

import (
	"context"
	"log/slog"
	"sync"
)

// StepEventType classifies simulator events.
type StepEventType string

const (
	EventStart        StepEventType = "start"
	EventEdgeEvaluate StepEventType = "edge_evaluate"
	EventTransition   StepEventType = "transition"
	EventStuck        StepEventType = "stuck"
	EventDone         StepEventType = "done"
)

// Rejection reasons reported on EventEdgeEvaluate.
const (
	RejectCondition   = "condition"
	RejectTargetRange = "target_range"
)

// StepEvent is one observation from a simulation. Valence and Energy carry the
// potential (unclamped) values for edge evaluations and the committed values
// for everything else.
type StepEvent struct {
	Type     StepEventType
	Step     int
	From     string
	To       string
	Valence  float64
	Energy   float64
	Eligible bool
	Reason   string
}

// StepObserver receives events during a simulation. Observers never
// influence the outcome.
type StepObserver interface {
	OnStep(StepEvent)
}

// StepObserverFunc adapts a plain function to StepObserver.
type StepObserverFunc func(StepEvent)

func (f StepObserverFunc) OnStep(e StepEvent) { f(e) }

// LogObserver writes events as structured slog lines at debug level.
type LogObserver struct {
	Logger *slog.Logger
}

func (o *LogObserver) OnStep(e StepEvent) {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []slog.Attr{
		slog.String("event", string(e.Type)),
		slog.Int("step", e.Step),
		slog.String("from", e.From),
		slog.Float64("valence", e.Valence),
		slog.Float64("energy", e.Energy),
	}
	if e.To != "" {
		attrs = append(attrs, slog.String("to", e.To))
	}
	if e.Type == EventEdgeEvaluate {
		attrs = append(attrs, slog.Bool("eligible", e.Eligible))
		if e.Reason != "" {
			attrs = append(attrs, slog.String("reason", e.Reason))
		}
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "mood simulation", attrs...)
}

// TraceCollector accumulates events in memory. Safe for concurrent use.
type TraceCollector struct {
	mu     sync.Mutex
	events []StepEvent
}

func (t *TraceCollector) OnStep(e StepEvent) {
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
}

// Events returns a copy of all collected events.
func (t *TraceCollector) Events() []StepEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]StepEvent, len(t.events))
	copy(out, t.events)
	return out
}

// EventsOfType returns only events matching typ.
func (t *TraceCollector) EventsOfType(typ StepEventType) []StepEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []StepEvent
	for _, e := range t.events {
		if e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears collected events.
func (t *TraceCollector) Reset() {
	t.mu.Lock()
	t.events = nil
	t.mu.Unlock()
}

func emit(obs StepObserver, e StepEvent) {
	if obs != nil {
		obs.OnStep(e)
	}
}
