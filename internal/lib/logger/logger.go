package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// DefaultTimeFormat формат времени по умолчанию для ShowDate.
const DefaultTimeFormat = time.DateTime

// Options описывает фильтрацию и оформление записей.
type Options struct {
	// Verbosity определяет, какие уровни печатаются (см. Threshold).
	Verbosity int
	// Fancy добавляет иконки и жирные метки уровней.
	Fancy bool
	// ColumnWidth ширина переноса сообщений, если Compact выключен.
	ColumnWidth int
	// Colors включает ANSI-цвета. Выключено - чистый ASCII.
	Colors bool
	// Compact сворачивает каждую запись в одну строку.
	Compact bool
	// ShowDate печатает время перед каждой записью.
	ShowDate bool

	TimeFormat   string
	Prefix       string
	ReportCaller bool
	// TimeFunction подменяет часы (для тестов).
	TimeFunction log.TimeFunction
}

// DefaultOptions возвращает настройки логгера, общие для всего проекта.
func DefaultOptions() Options {
	return Options{
		Verbosity:   DefaultVerbosity,
		Fancy:       true,
		ColumnWidth: 80,
		Colors:      true,
		Compact:     false,
		ShowDate:    true,
		TimeFormat:  DefaultTimeFormat,
	}
}

// Logger консольный логгер с уровнями поверх charmbracelet/log.
type Logger struct {
	base      *log.Logger
	opts      Options
	verbosity atomic.Int64
	hooks     *exitHooks
}

// exitHooks общие для логгера и всех его потомков.
type exitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// exit подменяется в тестах.
var exit = os.Exit

// New создает логгер, пишущий в w.
func New(w io.Writer, opts Options) *Logger {
	if opts.TimeFormat == "" {
		opts.TimeFormat = DefaultTimeFormat
	}

	base := log.NewWithOptions(w, log.Options{
		Level:           Threshold(opts.Verbosity),
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ShowDate,
		ReportCaller:    opts.ReportCaller,
		TimeFormat:      opts.TimeFormat,
		TimeFunction:    opts.TimeFunction,
		Formatter:       log.TextFormatter,
	})
	base.SetColorProfile(ColorProfile(opts.Colors))
	base.SetStyles(newStyles(opts))

	l := &Logger{base: base, opts: opts, hooks: &exitHooks{}}
	l.verbosity.Store(int64(opts.Verbosity))
	return l
}

// ColorProfile возвращает профиль терминала для настройки цвета.
func ColorProfile(colors bool) termenv.Profile {
	if colors {
		return termenv.ANSI256
	}
	return termenv.Ascii
}

func newStyles(opts Options) *log.Styles {
	st := log.DefaultStyles()
	st.Timestamp = lipgloss.NewStyle().Faint(true)
	st.Levels = make(map[log.Level]lipgloss.Style, len(badges))
	for level, b := range badges {
		label := b.name
		style := lipgloss.NewStyle().Foreground(b.color)
		if opts.Fancy {
			label = b.icon + " " + b.name
			style = style.Bold(true)
		}
		st.Levels[level] = style.SetString(label)
	}
	if st.Keys == nil {
		st.Keys = map[string]lipgloss.Style{}
	}
	st.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	st.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	return st
}

// Options возвращает настройки, с которыми создан логгер.
func (l *Logger) Options() Options {
	o := l.opts
	o.Verbosity = l.Level()
	return o
}

// Level возвращает текущую детализацию (verbosity).
func (l *Logger) Level() int {
	return int(l.verbosity.Load())
}

// SetLevel меняет детализацию.
func (l *Logger) SetLevel(verbosity int) {
	l.verbosity.Store(int64(verbosity))
	l.base.SetLevel(Threshold(verbosity))
}

// Enabled сообщает, печатаются ли записи уровня level.
func (l *Logger) Enabled(level log.Level) bool {
	return level >= Threshold(l.Level())
}

// With возвращает дочерний логгер с keyvals в каждой записи.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return l.derive(l.base.With(keyvals...))
}

// WithPrefix возвращает дочерний логгер с префиксом.
func (l *Logger) WithPrefix(prefix string) *Logger {
	return l.derive(l.base.WithPrefix(prefix))
}

func (l *Logger) derive(base *log.Logger) *Logger {
	c := &Logger{base: base, opts: l.opts, hooks: l.hooks}
	c.verbosity.Store(l.verbosity.Load())
	return c
}

// AtExit регистрирует fn, который Fatal вызовет перед завершением процесса.
// Функции выполняются в обратном порядке регистрации.
func (l *Logger) AtExit(fn func()) {
	l.hooks.mu.Lock()
	defer l.hooks.mu.Unlock()
	l.hooks.fns = append(l.hooks.fns, fn)
}

func (l *Logger) runExitHooks() {
	l.hooks.mu.Lock()
	fns := l.hooks.fns
	l.hooks.fns = nil
	l.hooks.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Log пишет msg на произвольном уровне.
func (l *Logger) Log(level log.Level, msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.base.Log(level, l.format(fmt.Sprint(msg)), keyvals...)
}

// Logf пишет форматированное сообщение на произвольном уровне.
func (l *Logger) Logf(level log.Level, format string, args ...interface{}) {
	l.base.Helper()
	l.base.Log(level, l.format(fmt.Sprintf(format, args...)))
}

// format применяет ширину колонки и Compact.
func (l *Logger) format(msg string) string {
	msg = strings.TrimRight(msg, "\n")
	if l.opts.Compact {
		return strings.Join(strings.Fields(msg), " ")
	}
	if l.opts.ColumnWidth > 0 {
		return ansi.Wrap(msg, l.opts.ColumnWidth, "")
	}
	return msg
}

func (l *Logger) Trace(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(TraceLevel, msg, keyvals...)
}

func (l *Logger) Debug(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(DebugLevel, msg, keyvals...)
}

func (l *Logger) Info(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(InfoLevel, msg, keyvals...)
}

func (l *Logger) Success(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(SuccessLevel, msg, keyvals...)
}

// Print пишет на уровне log, том же, что у перехваченного stdout.
func (l *Logger) Print(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(LogLevel, msg, keyvals...)
}

func (l *Logger) Warn(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(WarnLevel, msg, keyvals...)
}

func (l *Logger) Error(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.Log(ErrorLevel, msg, keyvals...)
}

// Fatal пишет запись уровня fatal и завершает процесс с кодом 1.
// Перед этим выполняются функции AtExit, в том числе восстановление
// перехваченного вывода, чтобы не потерять строки в каналах.
func (l *Logger) Fatal(msg interface{}, keyvals ...interface{}) {
	l.base.Helper()
	l.runExitHooks()
	l.Log(FatalLevel, msg, keyvals...)
	exit(1)
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(TraceLevel, format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(DebugLevel, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(InfoLevel, format, args...)
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(SuccessLevel, format, args...)
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(LogLevel, format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(WarnLevel, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.base.Helper()
	l.Logf(ErrorLevel, format, args...)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.base.Helper()
	l.runExitHooks()
	l.Logf(FatalLevel, format, args...)
	exit(1)
}
