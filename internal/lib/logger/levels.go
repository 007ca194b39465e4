package logger

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
)

// Уровни сообщений. Уровни charm реэкспортируются, а в промежутках между
// ними живут дополнительные уровни консольного логгера.
const (
	TraceLevel   = log.DebugLevel - 4
	DebugLevel   = log.DebugLevel
	InfoLevel    = log.InfoLevel
	SuccessLevel = log.InfoLevel + 1
	LogLevel     = log.InfoLevel + 2
	WarnLevel    = log.WarnLevel
	ErrorLevel   = log.ErrorLevel
	FatalLevel   = log.FatalLevel

	silentLevel = log.Level(math.MaxInt32)
)

// DefaultVerbosity используется, если детализация не задана.
const DefaultVerbosity = 5

// Threshold переводит детализацию (меньше - меньше сообщений) в минимальный
// уровень, который еще печатается.
//
//	< 0  silent
//	  0  fatal, error
//	  1  + warn
//	  2  + log
//	  3  + info, success
//	  4  + debug
//	>=5  + trace
func Threshold(verbosity int) log.Level {
	switch {
	case verbosity < 0:
		return silentLevel
	case verbosity == 0:
		return ErrorLevel
	case verbosity == 1:
		return WarnLevel
	case verbosity == 2:
		return LogLevel
	case verbosity == 3:
		return InfoLevel
	case verbosity == 4:
		return DebugLevel
	default:
		return TraceLevel
	}
}

type badge struct {
	name  string
	icon  string
	color lipgloss.TerminalColor
}

var badges = map[log.Level]badge{
	TraceLevel:   {name: "TRACE", icon: "→", color: lipgloss.Color("8")},
	DebugLevel:   {name: "DEBUG", icon: "⚙", color: lipgloss.Color("8")},
	InfoLevel:    {name: "INFO", icon: "ℹ", color: lipgloss.Color("6")},
	SuccessLevel: {name: "SUCCESS", icon: "✔", color: lipgloss.Color("2")},
	LogLevel:     {name: "LOG", icon: "›", color: lipgloss.Color("7")},
	WarnLevel:    {name: "WARN", icon: "⚠", color: lipgloss.Color("3")},
	ErrorLevel:   {name: "ERROR", icon: "✖", color: lipgloss.Color("1")},
	FatalLevel:   {name: "FATAL", icon: "✖", color: lipgloss.Color("9")},
}

// LevelName возвращает метку уровня заглавными буквами.
func LevelName(level log.Level) string {
	if b, ok := badges[level]; ok {
		return b.name
	}
	return level.String()
}
