package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-reducer/internal/apperror"
)

type Config struct {
	LogLevel    string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Board       Board     `yaml:"board"`
	ActionsPath string    `yaml:"actions-path" env:"ACTIONS_PATH" env-default:""`
	OutputPath  string    `yaml:"output-path" env:"OUTPUT_PATH" env-default:""`
	Telemetry   Telemetry `yaml:"telemetry"`
}

type Board struct {
	Rows int `yaml:"rows" env:"BOARD_ROWS" env-default:"3"`
	Cols int `yaml:"cols" env:"BOARD_COLS" env-default:"3"`
}

type Telemetry struct {
	Enabled     bool   `yaml:"enabled" env:"TELEMETRY_ENABLED" env-default:"false"`
	ServiceName string `yaml:"service-name" env:"TELEMETRY_SERVICE_NAME" env-default:"tictactoe-reducer"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Board.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Board) Validate() error {
	if that.Rows <= 0 || that.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", apperror.ErrInvalidBoard, that.Rows, that.Cols)
	}

	return nil
}
