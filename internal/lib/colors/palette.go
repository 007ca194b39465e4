package colors

import (
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Transform оборачивает текст в escape-последовательности стиля.
type Transform func(string) string

// Palette сопоставляет имя стиля и его преобразование.
type Palette map[string]Transform

var ansiNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Base строит базовую палитру на рендерере r. Цвета берутся из 16-цветной
// таблицы терминала, оттенок определяет тема пользователя.
func Base(r *lipgloss.Renderer) Palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	st := func() lipgloss.Style {
		return r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	}

	p := Palette{
		"bold":          transform(st().Bold(true)),
		"dim":           transform(st().Faint(true)),
		"italic":        transform(st().Italic(true)),
		"underline":     transform(st().Underline(true)),
		"inverse":       transform(st().Reverse(true)),
		"blink":         transform(st().Blink(true)),
		"strikethrough": transform(st().Strikethrough(true)),
	}
	for i, name := range ansiNames {
		normal := lipgloss.Color(strconv.Itoa(i))
		bright := lipgloss.Color(strconv.Itoa(i + 8))
		bgName := "bg" + strings.ToUpper(name[:1]) + name[1:]

		p[name] = transform(st().Foreground(normal))
		p[name+"Bright"] = transform(st().Foreground(bright))
		p[bgName] = transform(st().Background(normal))
		p[bgName+"Bright"] = transform(st().Background(bright))
	}
	p["gray"] = p["blackBright"]
	p["grey"] = p["blackBright"]
	p["bgGray"] = p["bgBlackBright"]
	p["bgGrey"] = p["bgBlackBright"]
	return p
}

// Default возвращает палитру проекта: Base плюс "success" (зеленый) и
// "error" (красный).
func Default(r *lipgloss.Renderer) Palette {
	base := Base(r)
	return base.With(Palette{
		"success": base["green"],
		"error":   base["red"],
	})
}

// With возвращает копию p, в которой записи overrides заменяют одноименные.
func (p Palette) With(overrides Palette) Palette {
	out := make(Palette, len(p)+len(overrides))
	for name, t := range p {
		out[name] = t
	}
	for name, t := range overrides {
		out[name] = t
	}
	return out
}

// Names возвращает имена стилей по алфавиту.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hexTransform строит стиль для имен "#rrggbb" и "bg#rrggbb".
func hexTransform(r *lipgloss.Renderer, name string) (Transform, bool) {
	bg := strings.HasPrefix(name, "bg#")
	hex := strings.TrimPrefix(name, "bg")
	if !validHex(hex) {
		return nil, false
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	st := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	if bg {
		return transform(st.Background(lipgloss.Color(hex))), true
	}
	return transform(st.Foreground(lipgloss.Color(hex))), true
}

func validHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// transform красит каждую строку отдельно, иначе lipgloss дополняет
// многострочный текст до блока.
func transform(s lipgloss.Style) Transform {
	return func(text string) string {
		if text == "" {
			return ""
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			if line != "" {
				lines[i] = s.Render(line)
			}
		}
		return strings.Join(lines, "\n")
	}
}
