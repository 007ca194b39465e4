package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rx3lixir/termkit/internal/lib/logger"
)

// EnvLogLevel задает детализацию логгера.
const EnvLogLevel = "LOG_LEVEL"

// ErrInvalidLogLevel возвращается, если уровень не является целым числом.
var ErrInvalidLogLevel = errors.New("invalid log level")

// AppConfig содержит параметры логгера и цветов приложения.
type AppConfig struct {
	Level        int    `toml:"level"`
	Fancy        bool   `toml:"fancy"`
	ColumnWidth  int    `toml:"column_width" validate:"min=20,max=1000"`
	Colors       bool   `toml:"colors"`
	Compact      bool   `toml:"compact"`
	ShowDate     bool   `toml:"show_date"`
	TimeFormat   string `toml:"time_format" validate:"required_if=ShowDate true"`
	Prefix       string `toml:"prefix" validate:"max=32"`
	ReportCaller bool   `toml:"report_caller"`
}

// Default возвращает конфигурацию по умолчанию.
func Default() AppConfig {
	o := logger.DefaultOptions()
	return AppConfig{
		Level:       o.Verbosity,
		Fancy:       o.Fancy,
		ColumnWidth: o.ColumnWidth,
		Colors:      o.Colors,
		Compact:     o.Compact,
		ShowDate:    o.ShowDate,
		TimeFormat:  o.TimeFormat,
	}
}

// ParseLevel разбирает детализацию. Пустая строка дает значение по умолчанию.
func ParseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return logger.DefaultVerbosity, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidLogLevel, s, err)
	}
	return n, nil
}

// ApplyEnv берет Level из LOG_LEVEL, если переменная задана.
func (c *AppConfig) ApplyEnv() error {
	v, ok := os.LookupEnv(EnvLogLevel)
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	level, err := ParseLevel(v)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", EnvLogLevel, err)
	}
	c.Level = level
	return nil
}

// FromEnv возвращает конфигурацию по умолчанию с учетом LOG_LEVEL.
func FromEnv() (*AppConfig, error) {
	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadAppConfig собирает конфигурацию: значения по умолчанию, затем файл
// через loader (если путь не пустой), затем LOG_LEVEL. Результат проверяется.
func LoadAppConfig(loader Loader, path string) (*AppConfig, error) {
	cfg := Default()
	if path != "" {
		loaded, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoggerOptions переводит конфигурацию в настройки логгера.
func (c AppConfig) LoggerOptions() logger.Options {
	return logger.Options{
		Verbosity:    c.Level,
		Fancy:        c.Fancy,
		ColumnWidth:  c.ColumnWidth,
		Colors:       c.Colors,
		Compact:      c.Compact,
		ShowDate:     c.ShowDate,
		TimeFormat:   c.TimeFormat,
		Prefix:       c.Prefix,
		ReportCaller: c.ReportCaller,
	}
}
