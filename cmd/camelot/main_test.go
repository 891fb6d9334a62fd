package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"camelot/internal/config"
	"camelot/internal/mood"

	"github.com/google/go-cmp/cmp"
)

// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{
		config.EnvClientID, config.EnvClientSecret, config.EnvLogLevel, config.EnvLogFormat,
		config.EnvGraph, config.EnvCacheBackend, config.EnvRedisAddr, config.EnvSpotifyRPS,
	} {
		t.Setenv(key, "")
	}

	rootFlags.configPath, rootFlags.graph, rootFlags.logLevel, rootFlags.logFormat = "", "", "", ""
	detectFlags.all = false
	transitionFlags.steps = mood.DefaultMaxSteps
	transitionFlags.text = ""
	transitionFlags.format = "table"
	graphFlags.format = "mermaid"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDetect(t *testing.T) {
	out, err := execute(t, "detect", "I", "feel", "Lonely")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if strings.TrimSpace(out) != "sad" {
		t.Errorf("detect output = %q, want sad", out)
	}

	out, err = execute(t, "detect", "--all", "stressed but calm")
	if err != nil {
		t.Fatalf("detect --all: %v", err)
	}
	if strings.TrimSpace(out) != "anxious, relaxed" {
		t.Errorf("detect --all output = %q", out)
	}

	out, err = execute(t, "detect", "nothing to see")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if strings.TrimSpace(out) != mood.Neutral {
		t.Errorf("detect output = %q, want neutral", out)
	}
}

func TestTransition_JSON(t *testing.T) {
	out, err := execute(t, "transition", "sad", "--steps", "2", "--format", "json")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	var got mood.Result
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := mood.Result{
		Path:        []string{"sad", "anxious", "relaxed"},
		CurrentMood: "relaxed",
		Valence:     0.5,
		Energy:      0.4,
		NextMoods:   []string{"happy"},
		Steps:       2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transition (-want +got):\n%s", diff)
	}
}

func TestTransition_FromTextTable(t *testing.T) {
	out, err := execute(t, "transition", "--text", "so furious right now")
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	for _, want := range []string{"angry → anxious", "0.45", "0.60", "relaxed"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestTransition_Errors(t *testing.T) {
	if _, err := execute(t, "transition", "bored"); !errors.Is(err, mood.ErrUnknownMood) {
		t.Errorf("unknown mood error = %v", err)
	}
	if _, err := execute(t, "transition", "--text", "an ordinary day"); err == nil || !strings.Contains(err.Error(), "no mood detected") {
		t.Errorf("neutral text error = %v", err)
	}
	if _, err := execute(t, "transition"); err == nil {
		t.Error("expected error without mood or text")
	}
	if _, err := execute(t, "transition", "sad", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "graph LR\n") || !strings.Contains(out, "relaxed -->") {
		t.Errorf("mermaid output:\n%s", out)
	}

	out, err = execute(t, "graph", "--format", "markdown")
	if err != nil {
		t.Fatalf("graph markdown: %v", err)
	}
	if !strings.Contains(out, "| happy ") {
		t.Errorf("markdown output:\n%s", out)
	}
	if !strings.Contains(out, "sad, depressed, lonely, heartbroken, ...") {
		t.Errorf("long keyword lists should be truncated:\n%s", out)
	}
	if strings.Contains(out, "hopeless") {
		t.Errorf("keywords past the column width leaked:\n%s", out)
	}
}

func TestCustomGraphFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	data := []byte(`graph: tiny
nodes:
  - id: blue
    keywords: [blue]
    valence: {min: 0.1, max: 0.3}
    energy: {min: 0.1, max: 0.3}
    step: {valence: 0.2, energy: 0.1}
    edges:
      - target: bright
  - id: bright
    keywords: [bright]
    valence: {min: 0.4, max: 0.9}
    energy: {min: 0.3, max: 0.9}
    step: {valence: 0, energy: 0}
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--graph", path, "detect", "feeling blue")
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if strings.TrimSpace(out) != "blue" {
		t.Errorf("detect with custom graph = %q", out)
	}

	if _, err := execute(t, "--graph", filepath.Join(t.TempDir(), "missing.yaml"), "graph"); err == nil {
		t.Error("expected error for missing graph file")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "detect", "sad"); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
}

func TestServe_RequiresCredentials(t *testing.T) {
	if _, err := execute(t, "serve"); !errors.Is(err, config.ErrMissingCredentials) {
		t.Errorf("serve error = %v, want ErrMissingCredentials", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "camelot dev\n" {
		t.Errorf("version output = %q", out)
	}
}
