package logger

import (
	"bytes"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// lineWriter передает в логгер каждую законченную строку.
type lineWriter struct {
	mu    sync.Mutex
	l     *Logger
	level log.Level
	buf   bytes.Buffer
}

// Writer возвращает io.Writer, который пишет каждую строку на уровне level.
// Нужен для библиотек, принимающих только writer.
func (l *Logger) Writer(level log.Level) io.Writer {
	return &lineWriter{l: l, level: level}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(line[:len(line)-1])
	}
	return len(p), nil
}

// Flush пишет хвост без перевода строки.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	w.l.Log(w.level, line)
}

// layer одна установленная подмена глобального вывода.
type layer struct {
	installed func() bool
	undo      func()
	released  bool
}

// Подмены одного и того же глобального значения образуют стек. Слой снимается
// только когда он сверху, иначе его канал живет до снятия верхних слоев.
var layers = struct {
	mu     sync.Mutex
	stacks map[interface{}][]*layer
}{stacks: map[interface{}][]*layer{}}

func install(key interface{}, set func(), ly *layer) func() {
	layers.mu.Lock()
	set()
	layers.stacks[key] = append(layers.stacks[key], ly)
	layers.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { release(key, ly) })
	}
}

func release(key interface{}, ly *layer) {
	layers.mu.Lock()
	defer layers.mu.Unlock()

	ly.released = true
	stack := layers.stacks[key]
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if !top.released || !top.installed() {
			break
		}
		stack = stack[:len(stack)-1]
		top.undo()
	}
	if len(stack) == 0 {
		delete(layers.stacks, key)
		return
	}
	layers.stacks[key] = stack
}

// stdlogKey ключ стека для стандартного пакета log.
type stdlogKey struct{}

// WrapStdLog направляет стандартный пакет log в логгер (уровень info).
// Флаги и префикс log сбрасываются, restore возвращает их.
func (l *Logger) WrapStdLog() (restore func()) {
	w := &lineWriter{l: l, level: InfoLevel}

	var (
		prevOut    io.Writer
		prevFlags  int
		prevPrefix string
	)
	return install(stdlogKey{}, func() {
		prevOut, prevFlags, prevPrefix = stdlog.Writer(), stdlog.Flags(), stdlog.Prefix()
		stdlog.SetFlags(0)
		stdlog.SetPrefix("")
		stdlog.SetOutput(w)
	}, &layer{
		installed: func() bool { return stdlog.Writer() == io.Writer(w) },
		undo: func() {
			w.Flush()
			stdlog.SetOutput(prevOut)
			stdlog.SetFlags(prevFlags)
			stdlog.SetPrefix(prevPrefix)
		},
	})
}

// WrapStd подменяет os.Stdout и os.Stderr каналами, строки из которых
// попадают в логгер: stdout на уровне log, stderr на уровне error.
//
// Подменяются только переменные пакета os. Дескрипторы 1 и 2 остаются
// прежними, поэтому встроенный println, паники рантайма и дочерние процессы
// пишут в терминал мимо логгера.
func (l *Logger) WrapStd() (restore func(), err error) {
	restoreOut, err := l.redirect(&os.Stdout, LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap stdout: %w", err)
	}
	restoreErr, err := l.redirect(&os.Stderr, ErrorLevel)
	if err != nil {
		restoreOut()
		return nil, fmt.Errorf("failed to wrap stderr: %w", err)
	}
	return func() {
		restoreErr()
		restoreOut()
	}, nil
}

// WrapAll перехватывает весь глобальный вывод процесса: os.Stdout, os.Stderr
// и стандартный log. Возвращаемая функция возвращает все как было; она же
// вызывается перед выходом из Fatal.
func (l *Logger) WrapAll() (restore func(), err error) {
	restoreStd, err := l.WrapStd()
	if err != nil {
		return nil, err
	}
	restoreLog := l.WrapStdLog()
	restore = func() {
		restoreLog()
		restoreStd()
	}
	l.AtExit(restore)
	return restore, nil
}

func (l *Logger) redirect(target **os.File, level log.Level) (func(), error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pipe: %w", err)
	}

	lw := &lineWriter{l: l, level: level}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = io.Copy(lw, r)
		lw.Flush()
	}()

	var prev *os.File
	return install(target, func() {
		prev = *target
		*target = w
	}, &layer{
		installed: func() bool { return *target == w },
		undo: func() {
			*target = prev
			_ = w.Close()
			<-done
			_ = r.Close()
		},
	}), nil
}
