package colors

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

func ansiRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

func TestDefaultPaletteOverrides(t *testing.T) {
	r := ansiRenderer()
	base := Base(r)
	c := NewDefault(r)

	got := c.MustRender("{success deployed}")
	if got != base["green"]("deployed") {
		t.Fatalf("success should render green, got %q", got)
	}
	if !strings.Contains(got, "\x1b[32m") {
		t.Fatalf("expected green SGR in %q", got)
	}

	got = c.MustRender("{error failed}")
	if got != base["red"]("failed") || !strings.Contains(got, "\x1b[31m") {
		t.Fatalf("error should render red, got %q", got)
	}
}

func TestOverridesBeatBaseEntries(t *testing.T) {
	r := ansiRenderer()
	base := Base(r)
	base["error"] = base["bold"]

	p := base.With(Palette{"error": base["red"]})
	got := New(r, p).MustRender("{error x}")
	if got != base["red"]("x") {
		t.Fatalf("override lost: got %q want %q", got, base["red"]("x"))
	}
	if _, ok := Base(r)["error"]; ok {
		t.Fatalf("With must not mutate other palettes")
	}
}

func TestBaseEntriesUnchanged(t *testing.T) {
	r := ansiRenderer()
	base := Base(r)
	c := NewDefault(r)
	for _, name := range []string{"blue", "bold", "bgYellow", "cyanBright", "gray"} {
		got := c.MustRender("{" + name + " text}")
		if got != base[name]("text") {
			t.Fatalf("%s: got %q want %q", name, got, base[name]("text"))
		}
	}
}

func TestNestingAndChains(t *testing.T) {
	r := ansiRenderer()
	p := Base(r)
	c := New(r, p)

	got := c.MustRender("{red a{bold b}c}")
	want := p["red"]("a") + p["red"](p["bold"]("b")) + p["red"]("c")
	if got != want {
		t.Fatalf("nested: got %q want %q", got, want)
	}

	got = c.MustRender("plain {bold.underline.blue x} tail")
	want = "plain " + p["bold"](p["underline"](p["blue"]("x"))) + " tail"
	if got != want {
		t.Fatalf("chain: got %q want %q", got, want)
	}

	st, err := c.Style("bold.blue")
	if err != nil {
		t.Fatalf("Style error: %v", err)
	}
	if st("x") != p["bold"](p["blue"]("x")) {
		t.Fatalf("Style builder disagrees with Render")
	}
}

func TestHexColors(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	c := NewDefault(r)

	got := c.MustRender("{#ff0000 hot}{bg#00ff00 cold}")
	if !strings.Contains(got, "38;2;255;0;0") || !strings.Contains(got, "48;2;0;255;0") {
		t.Fatalf("expected truecolor sequences, got %q", got)
	}
	if _, err := c.Render("{#ff00 bad}"); !errors.Is(err, ErrUnknownStyle) {
		t.Fatalf("expected ErrUnknownStyle for short hex, got %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	c := NewDefault(ansiRenderer())
	cases := []struct {
		tmpl string
		want error
	}{
		{"{nope x}", ErrUnknownStyle},
		{"{bold.nope x}", ErrUnknownStyle},
		{"{red open", ErrUnbalanced},
		{"closed}", ErrUnbalanced},
		{"{ spaced }", ErrUnbalanced},
	}
	for _, tc := range cases {
		if _, err := c.Render(tc.tmpl); !errors.Is(err, tc.want) {
			t.Fatalf("Render(%q) error = %v, want %v", tc.tmpl, err, tc.want)
		}
	}
}

func TestLiteralBracesAndEscapes(t *testing.T) {
	c := NewDefault(ansiRenderer())
	cases := map[string]string{
		`\{not a directive\}`: "{not a directive}",
		`back\\slash`:         `back\slash`,
		`{}`:                  "",
		`a {b`:                "a {b",
	}
	for tmpl, want := range cases {
		got, err := c.Render(tmpl)
		if want == "" {
			if err == nil {
				t.Fatalf("Render(%q) expected error, got %q", tmpl, got)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("Render(%q) = %q, %v; want %q", tmpl, got, err, want)
		}
	}
}

func TestSprintfEscapesArguments(t *testing.T) {
	r := ansiRenderer()
	c := NewDefault(r)

	got, err := c.Sprintf("{success %s} took %.1fs", "{red not styled}", 1.5)
	if err != nil {
		t.Fatalf("Sprintf error: %v", err)
	}
	want := Base(r)["green"]("{red not styled}") + " took 1.5s"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestSprintfStarArguments(t *testing.T) {
	c := NewDefault(ansiRenderer())
	cases := []struct {
		format string
		args   []interface{}
		want   string
	}{
		{"[%*d]", []interface{}{5, 3}, "[    3]"},
		{"[%-*s]", []interface{}{4, "{}"}, "[{}  ]"},
		{"%.*f", []interface{}{2, 3.14159}, "3.14"},
		{"%[2]*[1]d|", []interface{}{3, 5}, "    3|"},
		{"100%% {bold %d}", []interface{}{7}, "100% 7"},
	}
	for _, tc := range cases {
		got, err := c.Sprintf(tc.format, tc.args...)
		if err != nil {
			t.Fatalf("Sprintf(%q) error: %v", tc.format, err)
		}
		if got = ansi.Strip(got); got != tc.want {
			t.Fatalf("Sprintf(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestExecuteVariables(t *testing.T) {
	r := ansiRenderer()
	c := NewDefault(r)

	got, err := c.Execute("{error {{ name }}} failed with {{code}}", map[string]interface{}{
		"name": "api}",
		"code": 3,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if want := Base(r)["red"]("api}") + " failed with 3"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	if _, err := c.Execute("hi {{who}}", nil); !errors.Is(err, ErrUnknownVariable) {
		t.Fatalf("expected ErrUnknownVariable, got %v", err)
	}
}

func TestAsciiProfileIsPlain(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.Ascii)
	got := NewDefault(r).MustRender("{success ok} {error bad}")
	if got != "ok bad" {
		t.Fatalf("expected plain text, got %q", got)
	}
}

func TestTransformStylesLinesSeparately(t *testing.T) {
	red := Base(ansiRenderer())["red"]
	if got, want := red("a\nbbb"), red("a")+"\n"+red("bbb"); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if red("") != "" {
		t.Fatalf("empty input must stay empty")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Default(ansiRenderer()).Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	has := map[string]bool{}
	for _, n := range names {
		has[n] = true
	}
	for _, n := range []string{"success", "error", "red", "bgRedBright", "grey"} {
		if !has[n] {
			t.Fatalf("palette misses %q", n)
		}
	}
}
