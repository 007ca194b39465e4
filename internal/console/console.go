// Package console собирает общий логгер и палитру цветов процесса.
//
// Init вызывается один раз из main; полученный *Console передается
// потребителям явно. Повторный вызов Init создает второй независимый
// логгер, который снова перехватывает глобальный вывод (поверх первого).
package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rx3lixir/termkit/internal/config/appconfig"
	"github.com/rx3lixir/termkit/internal/lib/colors"
	"github.com/rx3lixir/termkit/internal/lib/logger"
)

// Console держит логгер и цветовой форматтер процесса.
type Console struct {
	Logger *logger.Logger
	Colors *colors.Colorizer
	// Out настоящий stdout до перехвата, для вывода мимо логгера
	// (отрендеренные шаблоны, TUI).
	Out io.Writer

	restore func()
}

// New собирает логгер и палитру, не трогая глобальный вывод.
func New(cfg appconfig.AppConfig, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	r.SetColorProfile(logger.ColorProfile(cfg.Colors))

	return &Console{
		Logger: logger.New(out, cfg.LoggerOptions()),
		Colors: colors.NewDefault(r),
		Out:    out,
	}
}

// Init собирает консоль и направляет os.Stdout, os.Stderr и стандартный
// пакет log через ее логгер.
func Init(cfg appconfig.AppConfig, out io.Writer) (*Console, error) {
	c := New(cfg, out)
	restore, err := c.Logger.WrapAll()
	if err != nil {
		return nil, fmt.Errorf("failed to wrap global output: %w", err)
	}
	c.restore = restore
	return c, nil
}

// Close восстанавливает глобальный вывод. Повторный вызов безопасен.
func (c *Console) Close() {
	if c.restore != nil {
		c.restore()
	}
}
