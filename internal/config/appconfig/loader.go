package appconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Loader определяет интерфейс загрузки конфигурации.
type Loader interface {
	Load(filePath string) (*AppConfig, error)
}

// TOMLLoader реализует загрузку из TOML. Отсутствующие ключи сохраняют
// значения по умолчанию.
type TOMLLoader struct{}

func (t *TOMLLoader) Load(filePath string) (*AppConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config file at line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Marshal сериализует конфигурацию в TOML.
func (c AppConfig) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
