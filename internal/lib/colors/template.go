package colors

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/valyala/fasttemplate"
)

var (
	// ErrUnknownStyle возвращается для имени, которого нет в палитре.
	ErrUnknownStyle = errors.New("unknown style")
	// ErrUnbalanced возвращается для лишней "}" или незакрытой "{".
	ErrUnbalanced = errors.New("unbalanced braces in template")
	// ErrUnknownVariable возвращается Execute для {{name}} без значения.
	ErrUnknownVariable = errors.New("unknown template variable")
)

// Colorizer применяет стили палитры к шаблонам вида "{bold.red текст}".
type Colorizer struct {
	r       *lipgloss.Renderer
	palette Palette
}

// New создает Colorizer с палитрой p. Рендерер r нужен для hex-цветов.
func New(r *lipgloss.Renderer, p Palette) *Colorizer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Colorizer{r: r, palette: p}
}

// NewDefault создает Colorizer с палитрой Default.
func NewDefault(r *lipgloss.Renderer) *Colorizer {
	return New(r, Default(r))
}

// Palette возвращает палитру, по которой разрешаются имена.
func (c *Colorizer) Palette() Palette {
	return c.palette
}

// Style собирает цепочку через точку, например "bold.success", в одно
// преобразование. Крайнее левое имя применяется последним.
func (c *Colorizer) Style(chain string) (Transform, error) {
	ts, err := c.resolve(chain)
	if err != nil {
		return nil, err
	}
	return func(s string) string { return apply(ts, s) }, nil
}

func (c *Colorizer) resolve(chain string) ([]Transform, error) {
	names := strings.Split(chain, ".")
	ts := make([]Transform, 0, len(names))
	for _, name := range names {
		if t, ok := c.palette[name]; ok {
			ts = append(ts, t)
			continue
		}
		if t, ok := hexTransform(c.r, name); ok {
			ts = append(ts, t)
			continue
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return ts, nil
}

func apply(ts []Transform, s string) string {
	for i := len(ts) - 1; i >= 0; i-- {
		s = ts[i](s)
	}
	return s
}

// Render применяет директивы стилей из tmpl.
func (c *Colorizer) Render(tmpl string) (string, error) {
	var (
		out     strings.Builder
		pending strings.Builder
		stack   [][]Transform
	)
	flush := func() {
		if pending.Len() == 0 {
			return
		}
		s := pending.String()
		pending.Reset()
		for i := len(stack) - 1; i >= 0; i-- {
			s = apply(stack[i], s)
		}
		out.WriteString(s)
	}

	for i := 0; i < len(tmpl); i++ {
		switch ch := tmpl[i]; ch {
		case '\\':
			if i+1 < len(tmpl) && strings.IndexByte(`{}\`, tmpl[i+1]) >= 0 {
				i++
				pending.WriteByte(tmpl[i])
			} else {
				pending.WriteByte(ch)
			}
		case '{':
			chain, next, ok := readChain(tmpl, i+1)
			if !ok {
				pending.WriteByte(ch)
				continue
			}
			ts, err := c.resolve(chain)
			if err != nil {
				return "", err
			}
			flush()
			stack = append(stack, ts)
			i = next - 1
		case '}':
			if len(stack) == 0 {
				return "", fmt.Errorf("%w: extraneous } at offset %d", ErrUnbalanced, i)
			}
			flush()
			stack = stack[:len(stack)-1]
		default:
			pending.WriteByte(ch)
		}
	}
	if len(stack) > 0 {
		return "", fmt.Errorf("%w: missing %d closing bracket(s)", ErrUnbalanced, len(stack))
	}
	flush()
	return out.String(), nil
}

// readChain читает цепочку стилей с позиции i. Цепочка заканчивается пробелом
// или табуляцией (они съедаются) либо перед переводом строки. Возвращает
// индекс первого байта тела.
func readChain(s string, i int) (string, int, bool) {
	start := i
	for i < len(s) && isChainByte(s[i]) {
		i++
	}
	if i == start || i == len(s) {
		return "", 0, false
	}
	chain := s[start:i]
	if strings.HasPrefix(chain, ".") || strings.HasSuffix(chain, ".") || strings.Contains(chain, "..") {
		return "", 0, false
	}
	switch s[i] {
	case ' ', '\t':
		return chain, i + 1, true
	case '\n', '\r':
		return chain, i, true
	}
	return "", 0, false
}

func isChainByte(b byte) bool {
	return b == '.' || b == '#' || b == '_' || b == ':' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// MustRender как Render, но паникует при ошибке.
func (c *Colorizer) MustRender(tmpl string) string {
	s, err := c.Render(tmpl)
	if err != nil {
		panic(err)
	}
	return s
}

// Escape экранирует s, чтобы текст не читался как разметка.
func Escape(s string) string {
	if !strings.ContainsAny(s, `{}\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(`{}\`, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// literal форматирует значение глаголом вызывающего и экранирует результат,
// поэтому подставленные значения не становятся директивами.
type literal struct{ v interface{} }

func (l literal) Format(f fmt.State, verb rune) {
	_, _ = io.WriteString(f, Escape(fmt.Sprintf(fmt.FormatString(f, verb), l.v)))
}

// Sprintf форматирует как fmt.Sprintf и рендерит результат. Директивы
// берутся только из format, аргументы экранируются. Аргументы ширины и
// точности ("%*d", "%.*f") передаются в fmt как есть.
func (c *Colorizer) Sprintf(format string, args ...interface{}) (string, error) {
	star := starArgs(format, len(args))
	wrapped := make([]interface{}, len(args))
	for i, a := range args {
		if star[i] {
			wrapped[i] = a
			continue
		}
		wrapped[i] = literal{a}
	}
	return c.Render(fmt.Sprintf(format, wrapped...))
}

// starArgs отмечает аргументы, которые fmt прочитает как "*".
func starArgs(format string, n int) []bool {
	star := make([]bool, n)
	mark := func(arg int) {
		if arg >= 0 && arg < n {
			star[arg] = true
		}
	}

	arg := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		i++
		for i < len(format) && strings.IndexByte("+-# 0", format[i]) >= 0 {
			i++
		}

		arg, i = argIndex(format, i, arg)
		if i < len(format) && format[i] == '*' {
			mark(arg)
			arg++
			i++
		}
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			i++
		}

		if i < len(format) && format[i] == '.' {
			i++
			arg, i = argIndex(format, i, arg)
			if i < len(format) && format[i] == '*' {
				mark(arg)
				arg++
				i++
			}
			for i < len(format) && format[i] >= '0' && format[i] <= '9' {
				i++
			}
		}

		arg, i = argIndex(format, i, arg)
		if i >= len(format) {
			break
		}
		if format[i] != '%' {
			arg++
		}
	}
	return star
}

// argIndex разбирает явный номер аргумента "[n]" на позиции i.
func argIndex(format string, i, arg int) (int, int) {
	if i >= len(format) || format[i] != '[' {
		return arg, i
	}
	j := strings.IndexByte(format[i:], ']')
	if j < 0 {
		return arg, i
	}
	n, err := strconv.Atoi(format[i+1 : i+j])
	if err != nil || n < 1 {
		return arg, i
	}
	return n - 1, i + j + 1
}

// MustSprintf как Sprintf, но паникует при ошибке.
func (c *Colorizer) MustSprintf(format string, args ...interface{}) string {
	s, err := c.Sprintf(format, args...)
	if err != nil {
		panic(err)
	}
	return s
}

// Execute подставляет {{name}} из vars и рендерит результат. Значения
// экранируются так же, как аргументы Sprintf.
func (c *Colorizer) Execute(tmpl string, vars map[string]interface{}) (string, error) {
	s, err := fasttemplate.ExecuteFuncStringWithErr(tmpl, "{{", "}}", func(w io.Writer, tag string) (int, error) {
		name := strings.TrimSpace(tag)
		v, ok := vars[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
		return io.WriteString(w, Escape(fmt.Sprint(v)))
	})
	if err != nil {
		return "", fmt.Errorf("failed to substitute variables: %w", err)
	}
	return c.Render(s)
}
