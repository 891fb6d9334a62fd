package mood

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetect_EveryKeyword(t *testing.T) {
	reg := defaultRegistry(t)
	d := NewDetector(reg)

	for _, n := range reg.Nodes() {
		for _, kw := range n.Keywords {
			text := "lately i feel " + kw + " most days"
			if got := d.Detect(text); got != n.ID {
				// An earlier node can legitimately claim the text only if it
				// shares the keyword; the default graph has no overlaps.
				t.Errorf("Detect(%q) = %q, want %q", text, got, n.ID)
			}
		}
	}
}

func TestDetect(t *testing.T) {
	d := NewDetector(defaultRegistry(t))

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "I am sad", "sad"},
		{"uppercase", "SO ANGRY RIGHT NOW", "angry"},
		{"tabs and newlines", "work\tmakes me\nstressed", "anxious"},
		{"token exact", "sadness everywhere", Neutral},
		{"punctuation is part of the token", "i am sad.", Neutral},
		{"empty", "", Neutral},
		{"no keyword", "the weather is fine", Neutral},
		{"registry order wins over text order", "happy but sad", "sad"},
		{"angry before relaxed", "calm yet furious", "angry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectAll(t *testing.T) {
	d := NewDetector(defaultRegistry(t))

	got := d.DetectAll("calm but nervous and a little sad")
	if diff := cmp.Diff([]string{"sad", "anxious", "relaxed"}, got); diff != "" {
		t.Errorf("DetectAll (-want +got):\n%s", diff)
	}
	if got := d.DetectAll("nothing here"); got == nil || len(got) != 0 {
		t.Errorf("DetectAll(no match) = %#v, want empty slice", got)
	}
}

func TestDetect_NeutralIsRejectedBySimulator(t *testing.T) {
	reg := defaultRegistry(t)
	id := NewDetector(reg).Detect("just a regular tuesday")
	if id != Neutral {
		t.Fatalf("Detect = %q, want neutral", id)
	}
	if _, err := NewSimulator(reg).Transition(id, 1); err == nil {
		t.Error("simulator accepted the neutral fallback")
	}
}
