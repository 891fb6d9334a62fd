package format_test

import (
	"strings"
	"testing"

	"camelot/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Step", "Mood", "Valence")
	tb.Row(0, "sad", "0.25")
	tb.Row(1, "anxious", "0.40")
	out := tb.String()

	for _, want := range []string{"anxious", "0.40"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Mood", "Next")
	tb.Row("relaxed", "happy")
	out := tb.String()

	if !strings.Contains(out, "| Mood") {
		t.Errorf("expected markdown header with '| Mood':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if strings.Contains(out, "───") {
		t.Errorf("markdown output must not use box drawing:\n%s", out)
	}
}

func TestTitleAndFooter(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Title("camelot")
	tb.Header("Mood", "Edges")
	tb.Row("sad", 2)
	tb.Footer("TOTAL", 2)
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight})
	out := tb.String()

	for _, want := range []string{"camelot", "total"} {
		if !strings.Contains(strings.ToLower(out), want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    format.Mode
		wantErr bool
	}{
		{"", format.ASCII, false},
		{"table", format.ASCII, false},
		{"Markdown", format.Markdown, false},
		{"md", format.Markdown, false},
		{"html", format.ASCII, true},
	}
	for _, tt := range tests {
		got, err := format.ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = (%v, %v), want (%v, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestHelpers(t *testing.T) {
	if got := format.Fixed2(0.4); got != "0.40" {
		t.Errorf("Fixed2 = %q", got)
	}
	if got := format.List(nil); got != "-" {
		t.Errorf("List(nil) = %q", got)
	}
	if got := format.List([]string{"anxious", "relaxed"}); got != "anxious, relaxed" {
		t.Errorf("List = %q", got)
	}
	if got := format.Path([]string{"sad", "anxious"}); got != "sad → anxious" {
		t.Errorf("Path = %q", got)
	}
	if got := format.Truncate("heartbroken", 8); got != "heart..." {
		t.Errorf("Truncate = %q", got)
	}
	if got := format.Truncate("sad", 8); got != "sad" {
		t.Errorf("Truncate short = %q", got)
	}
	if format.BoolMark(true) != "✓" || format.BoolMark(false) != "✗" {
		t.Error("BoolMark")
	}
}
