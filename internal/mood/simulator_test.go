package mood

import (
	"errors"
	"sync"
	"testing"

	"camelot/internal/numeric"

	"github.com/google/go-cmp/cmp"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := DefaultRegistry()
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	return reg
}

func TestTransition_SadOneStep(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	got, err := sim.Transition("sad", 1)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	want := &Result{
		Path:        []string{"sad", "anxious"},
		CurrentMood: "anxious",
		Valence:     0.40,
		Energy:      0.50,
		IsFinalMood: false,
		NextMoods:   []string{"relaxed"},
		Steps:       1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transition(sad, 1) mismatch (-want +got):\n%s", diff)
	}
}

func TestTransition_SadTwoSteps(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	got, err := sim.Transition("sad", 2)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	want := &Result{
		Path:        []string{"sad", "anxious", "relaxed"},
		CurrentMood: "relaxed",
		Valence:     0.50,
		Energy:      0.40,
		IsFinalMood: false,
		NextMoods:   []string{"happy"},
		Steps:       2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Transition(sad, 2) mismatch (-want +got):\n%s", diff)
	}
}

func TestTransition_StopsWhenStuck(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	// relaxed at valence 0.50 only reaches 0.60, short of happy's 0.70 gate.
	got, err := sim.Transition("sad", 5)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if diff := cmp.Diff([]string{"sad", "anxious", "relaxed"}, got.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if !got.Stuck {
		t.Error("expected Stuck when budget remains and no edge is eligible")
	}
	if got.Steps != 2 {
		t.Errorf("Steps = %d, want 2", got.Steps)
	}
}

func TestTransition_Table(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	tests := []struct {
		start   string
		steps   int
		path    []string
		valence float64
		energy  float64
	}{
		{"angry", 1, []string{"angry", "anxious"}, 0.45, 0.60},
		{"angry", 3, []string{"angry", "anxious", "relaxed"}, 0.55, 0.50},
		{"anxious", 1, []string{"anxious", "relaxed"}, 0.55, 0.45},
		{"relaxed", 1, []string{"relaxed", "happy"}, 0.75, 0.55},
		{"relaxed", 4, []string{"relaxed", "happy"}, 0.75, 0.55},
	}
	for _, tt := range tests {
		got, err := sim.Transition(tt.start, tt.steps)
		if err != nil {
			t.Fatalf("Transition(%s, %d): %v", tt.start, tt.steps, err)
		}
		if diff := cmp.Diff(tt.path, got.Path); diff != "" {
			t.Errorf("Transition(%s, %d) path (-want +got):\n%s", tt.start, tt.steps, diff)
		}
		if got.Valence != tt.valence || got.Energy != tt.energy {
			t.Errorf("Transition(%s, %d) = (%.2f, %.2f), want (%.2f, %.2f)",
				tt.start, tt.steps, got.Valence, got.Energy, tt.valence, tt.energy)
		}
	}
}

func TestTransition_ZeroStepsIsInitialState(t *testing.T) {
	reg := defaultRegistry(t)
	sim := NewSimulator(reg)

	for _, n := range reg.Nodes() {
		for _, steps := range []int{0, -3} {
			got, err := sim.Transition(n.ID, steps)
			if err != nil {
				t.Fatalf("Transition(%s, %d): %v", n.ID, steps, err)
			}
			if diff := cmp.Diff([]string{n.ID}, got.Path); diff != "" {
				t.Errorf("Transition(%s, %d) path (-want +got):\n%s", n.ID, steps, diff)
			}
			wantV := numeric.Round(n.Valence.Clamp(n.Valence.Mid()), 2)
			wantE := numeric.Round(n.Energy.Clamp(n.Energy.Mid()), 2)
			if got.Valence != wantV || got.Energy != wantE {
				t.Errorf("Transition(%s, %d) = (%v, %v), want midpoint (%v, %v)", n.ID, steps, got.Valence, got.Energy, wantV, wantE)
			}
			if got.Steps != 0 || got.Stuck {
				t.Errorf("Transition(%s, %d): Steps=%d Stuck=%v, want 0/false", n.ID, steps, got.Steps, got.Stuck)
			}
		}
	}
}

func TestTransition_UnknownMood(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	for _, id := range []string{Neutral, "sadd", ""} {
		_, err := sim.Transition(id, 1)
		if !errors.Is(err, ErrUnknownMood) {
			t.Errorf("Transition(%q) error = %v, want ErrUnknownMood", id, err)
		}
	}
}

func TestTransition_TerminalNode(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))

	got, err := sim.Transition("happy", 5)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if diff := cmp.Diff([]string{"happy"}, got.Path); diff != "" {
		t.Errorf("path (-want +got):\n%s", diff)
	}
	if !got.IsFinalMood {
		t.Error("happy should be final")
	}
	if got.NextMoods == nil || len(got.NextMoods) != 0 {
		t.Errorf("NextMoods = %#v, want empty non-nil slice", got.NextMoods)
	}
	if got.Stuck {
		t.Error("a final mood is not reported as stuck")
	}
}

func TestTransition_RangeInvariant(t *testing.T) {
	reg := defaultRegistry(t)
	trace := &TraceCollector{}
	sim := NewSimulator(reg, WithObserver(trace))

	for _, start := range reg.IDs() {
		for steps := 0; steps <= 6; steps++ {
			trace.Reset()
			res, err := sim.Transition(start, steps)
			if err != nil {
				t.Fatalf("Transition(%s, %d): %v", start, steps, err)
			}
			for _, ev := range trace.EventsOfType(EventTransition) {
				n, _ := reg.Lookup(ev.To)
				if !n.Valence.Contains(ev.Valence) || !n.Energy.Contains(ev.Energy) {
					t.Errorf("%s/%d step %d: (%v, %v) outside %s ranges %s %s",
						start, steps, ev.Step, ev.Valence, ev.Energy, n.ID, n.Valence, n.Energy)
				}
			}
			final, _ := reg.Lookup(res.CurrentMood)
			if !final.Valence.Contains(res.Valence) || !final.Energy.Contains(res.Energy) {
				t.Errorf("%s/%d: final (%v, %v) outside %s ranges", start, steps, res.Valence, res.Energy, final.ID)
			}
		}
	}
}

func TestTransition_FirstDeclaredEdgeWins(t *testing.T) {
	nodes := []Node{
		{
			ID:      "start",
			Valence: Range{0.4, 0.6},
			Energy:  Range{0.4, 0.6},
			Step:    Step{Valence: 0.1, Energy: 0},
			Edges: []Edge{
				{Target: "first", When: Condition{MinValence: Bound(0.5)}},
				{Target: "second", When: Condition{MinValence: Bound(0.5)}},
			},
		},
		{ID: "first", Valence: Range{0, 1}, Energy: Range{0, 1}},
		{ID: "second", Valence: Range{0, 1}, Energy: Range{0, 1}},
	}
	reg, err := NewRegistry("tie", nodes)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	sim := NewSimulator(reg)

	for i := 0; i < 20; i++ {
		got, err := sim.Transition("start", 1)
		if err != nil {
			t.Fatalf("Transition: %v", err)
		}
		if got.CurrentMood != "first" {
			t.Fatalf("run %d: CurrentMood = %q, want first", i, got.CurrentMood)
		}
	}
}

func TestTransition_ConditionUsesUnclampedValues(t *testing.T) {
	// Potential valence 0.95 exceeds the target's max of 0.8; the edge still
	// fires because conditions see the unclamped value, then the committed
	// value is clamped into the target.
	nodes := []Node{
		{
			ID:      "up",
			Valence: Range{0.8, 0.9},
			Energy:  Range{0.5, 0.5},
			Step:    Step{Valence: 0.1},
			Edges:   []Edge{{Target: "cap", When: Condition{MinValence: Bound(0.9)}}},
		},
		{ID: "cap", Valence: Range{0.5, 0.8}, Energy: Range{0.4, 0.6}},
	}
	reg, err := NewRegistry("clamp", nodes)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	got, err := NewSimulator(reg).Transition("up", 1)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.CurrentMood != "cap" || got.Valence != 0.8 || got.Energy != 0.5 {
		t.Errorf("got %s (%v, %v), want cap (0.8, 0.5)", got.CurrentMood, got.Valence, got.Energy)
	}
}

func TestTransition_TargetRangeGuardSkipsMalformedTarget(t *testing.T) {
	// Built by hand to bypass NewRegistry validation: "broken" has an
	// inverted valence range, so clamping can never land inside it.
	reg := &Registry{
		name: "guard",
		nodes: []Node{
			{
				ID:      "start",
				Valence: Range{0.4, 0.6},
				Energy:  Range{0.4, 0.6},
				Step:    Step{Valence: 0.1},
				Edges: []Edge{
					{Target: "broken"},
					{Target: "ok"},
				},
			},
			{ID: "broken", Valence: Range{0.8, 0.2}, Energy: Range{0, 1}},
			{ID: "ok", Valence: Range{0, 1}, Energy: Range{0, 1}},
		},
		index: map[string]int{"start": 0, "broken": 1, "ok": 2},
	}
	trace := &TraceCollector{}
	got, err := NewSimulator(reg, WithObserver(trace)).Transition("start", 1)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if got.CurrentMood != "ok" {
		t.Errorf("CurrentMood = %q, want ok", got.CurrentMood)
	}
	evals := trace.EventsOfType(EventEdgeEvaluate)
	if len(evals) != 2 || evals[0].Reason != RejectTargetRange || !evals[1].Eligible {
		t.Errorf("edge evaluations = %+v", evals)
	}
}

func TestTransition_ConcurrentCallsAreIndependent(t *testing.T) {
	sim := NewSimulator(defaultRegistry(t))
	want, err := sim.Transition("sad", 2)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := sim.Transition("sad", 2)
			if err != nil {
				errs <- err.Error()
				return
			}
			if diff := cmp.Diff(want, got); diff != "" {
				errs <- diff
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}
