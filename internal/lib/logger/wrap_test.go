package logger

import (
	"bytes"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWriterBuffersPartialLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, plainOptions(5))
	w := l.Writer(WarnLevel)

	fmt.Fprint(w, "half a ")
	if buf.Len() != 0 {
		t.Fatalf("partial line logged too early: %q", buf.String())
	}
	fmt.Fprint(w, "line\nnext\n\n")

	out := buf.String()
	if !strings.Contains(out, "WARN half a line") || !strings.Contains(out, "WARN next") {
		t.Fatalf("unexpected output: %q", out)
	}
	if n := strings.Count(out, "WARN"); n != 2 {
		t.Fatalf("expected 2 entries, got %d: %q", n, out)
	}
}

func TestWrapAllRoutesGlobalOutput(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	opts := plainOptions(5)
	opts.ShowDate = true
	opts.TimeFunction = func(time.Time) time.Time { return fixed }

	var buf bytes.Buffer
	l := New(&buf, opts)

	origOut, origErr := os.Stdout, os.Stderr
	restore, err := l.WrapAll()
	if err != nil {
		t.Fatalf("WrapAll error: %v", err)
	}
	fmt.Println("hello from fmt")
	fmt.Fprintln(os.Stderr, "trouble on stderr")
	stdlog.Printf("hello from %s", "log")
	restore()

	if os.Stdout != origOut || os.Stderr != origErr {
		t.Fatalf("restore did not reinstate the original streams")
	}

	out := buf.String()
	for _, want := range []string{
		"2024-05-01 09:00:00 LOG hello from fmt",
		"2024-05-01 09:00:00 ERROR trouble on stderr",
		"2024-05-01 09:00:00 INFO hello from log",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output: %q", want, out)
		}
	}

	// restore is idempotent and output no longer reaches the logger
	restore()
	buf.Reset()
	stdlog.SetOutput(&bytes.Buffer{})
	defer stdlog.SetOutput(os.Stderr)
	stdlog.Print("after restore")
	if buf.Len() != 0 {
		t.Fatalf("logger received output after restore: %q", buf.String())
	}
}

func TestWrapAllTwiceChainsLoggers(t *testing.T) {
	var outer bytes.Buffer
	first := New(&outer, plainOptions(5))
	restoreFirst, err := first.WrapAll()
	if err != nil {
		t.Fatalf("first WrapAll error: %v", err)
	}

	// The second logger writes to whatever os.Stdout is now: the first pipe.
	second := New(os.Stdout, plainOptions(5))
	if second == first {
		t.Fatalf("expected distinct loggers")
	}
	restoreSecond, err := second.WrapAll()
	if err != nil {
		restoreFirst()
		t.Fatalf("second WrapAll error: %v", err)
	}

	fmt.Println("duplicated")
	restoreSecond()
	restoreFirst()

	out := outer.String()
	if !strings.Contains(out, "LOG LOG duplicated") {
		t.Fatalf("expected output formatted by both loggers, got: %q", out)
	}
}

func TestWrapStdLogRestoresFlagsAndPrefix(t *testing.T) {
	prevOut, prevFlags, prevPrefix := stdlog.Writer(), stdlog.Flags(), stdlog.Prefix()
	defer func() {
		stdlog.SetOutput(prevOut)
		stdlog.SetFlags(prevFlags)
		stdlog.SetPrefix(prevPrefix)
	}()

	var sink bytes.Buffer
	stdlog.SetOutput(&sink)
	stdlog.SetFlags(stdlog.Lshortfile | stdlog.Lmicroseconds)
	stdlog.SetPrefix("app: ")

	var buf bytes.Buffer
	restore := New(&buf, plainOptions(5)).WrapStdLog()
	if stdlog.Flags() != 0 || stdlog.Prefix() != "" {
		t.Fatalf("stdlib log not reset: flags=%d prefix=%q", stdlog.Flags(), stdlog.Prefix())
	}
	stdlog.Print("inside")
	restore()

	if stdlog.Flags() != stdlog.Lshortfile|stdlog.Lmicroseconds || stdlog.Prefix() != "app: " {
		t.Fatalf("flags or prefix not restored: flags=%d prefix=%q", stdlog.Flags(), stdlog.Prefix())
	}
	if stdlog.Writer() != io.Writer(&sink) {
		t.Fatalf("output not restored")
	}
	if !strings.Contains(buf.String(), "INFO inside") {
		t.Fatalf("expected entry from stdlib log, got %q", buf.String())
	}
}

func TestRestoreOutOfOrderKeepsStreamsUsable(t *testing.T) {
	origOut, origErr, origLog := os.Stdout, os.Stderr, stdlog.Writer()

	var outer bytes.Buffer
	first := New(&outer, plainOptions(5))
	restoreFirst, err := first.WrapAll()
	if err != nil {
		t.Fatalf("first WrapAll error: %v", err)
	}
	second := New(os.Stdout, plainOptions(5))
	restoreSecond, err := second.WrapAll()
	if err != nil {
		restoreFirst()
		t.Fatalf("second WrapAll error: %v", err)
	}

	restoreFirst()
	if _, err := fmt.Println("still routed"); err != nil {
		t.Fatalf("stdout broken after closing the inner layer: %v", err)
	}
	stdlog.Print("log still routed")
	restoreSecond()

	if os.Stdout != origOut || os.Stderr != origErr || stdlog.Writer() != origLog {
		t.Fatalf("original streams not reinstated")
	}
	out := outer.String()
	if !strings.Contains(out, "LOG LOG still routed") || !strings.Contains(out, "LOG INFO log still routed") {
		t.Fatalf("expected output through both loggers, got %q", out)
	}
}

func TestWrapStdSwapsOnlyVariables(t *testing.T) {
	var buf bytes.Buffer
	restore, err := New(&buf, plainOptions(5)).WrapStd()
	if err != nil {
		t.Fatalf("WrapStd error: %v", err)
	}
	defer restore()

	if os.Stdout.Fd() == 1 || os.Stderr.Fd() == 2 {
		t.Fatalf("expected pipe files in os.Stdout and os.Stderr")
	}
}

func TestFatalFlushesWrappedOutput(t *testing.T) {
	code := -1
	old := exit
	exit = func(c int) { code = c }
	defer func() { exit = old }()

	origOut := os.Stdout
	var buf bytes.Buffer
	l := New(&buf, plainOptions(5))
	restore, err := l.WrapAll()
	if err != nil {
		t.Fatalf("WrapAll error: %v", err)
	}
	defer restore()

	fmt.Print("unterminated")
	l.With("step", 2).Fatal("giving up")

	if code != 1 {
		t.Fatalf("expected exit(1), got %d", code)
	}
	if os.Stdout != origOut {
		t.Fatalf("Fatal did not restore os.Stdout")
	}
	out := buf.String()
	pending, fatal := strings.Index(out, "LOG unterminated"), strings.Index(out, "FATAL giving up")
	if pending < 0 || fatal < 0 || pending > fatal {
		t.Fatalf("pending stdout must be logged before the fatal entry, got %q", out)
	}
}

func TestAtExitRunsInReverseOrder(t *testing.T) {
	old := exit
	exit = func(int) {}
	defer func() { exit = old }()

	var order []string
	var buf bytes.Buffer
	l := New(&buf, plainOptions(0))
	l.AtExit(func() { order = append(order, "first") })
	l.WithPrefix("child").AtExit(func() { order = append(order, "second") })
	l.Fatalf("bye")
	l.Fatalf("again")

	if strings.Join(order, ",") != "second,first" {
		t.Fatalf("unexpected hook order: %v", order)
	}
}
