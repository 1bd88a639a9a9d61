package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"
	dirMode  = 0700
	fileMode = 0600

	ReferenceDefault = "cheat_solutions.csv"
	TrainDefault     = "train.csv"
	IDColumnDefault  = "id"
	TargetDefault    = "target"
	ModeDefault      = "position"
	FormatDefault    = "text"
)

// Config represents app config object.
type Config struct {
	Reference    string `yaml:"reference"`
	Train        string `yaml:"train"`
	IDColumn     string `yaml:"id_column"`
	TargetColumn string `yaml:"target_column"`
	ScoreColumn  string `yaml:"score_column"`
	Mode         string `yaml:"mode"`
	Format       string `yaml:"format"`
	History      bool   `yaml:"history"`
}

// Default returns the config used when no file exists.
func Default() *Config {
	return &Config{
		Reference:    ReferenceDefault,
		Train:        TrainDefault,
		IDColumn:     IDColumnDefault,
		TargetColumn: TargetDefault,
		ScoreColumn:  TargetDefault,
		Mode:         ModeDefault,
		Format:       FormatDefault,
	}
}

// fillDefaults sets any empty field to its default value.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Reference == "" {
		c.Reference = d.Reference
	}
	if c.Train == "" {
		c.Train = d.Train
	}
	if c.IDColumn == "" {
		c.IDColumn = d.IDColumn
	}
	if c.TargetColumn == "" {
		c.TargetColumn = d.TargetColumn
	}
	if c.ScoreColumn == "" {
		c.ScoreColumn = d.ScoreColumn
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.Format == "" {
		c.Format = d.Format
	}
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dirPath, FileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dirPath, dirMode); err != nil {
			return nil, fmt.Errorf("failed to create dir %s: %w", dirPath, err)
		}
	}

	path := filepath.Join(dirPath, FileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}
	c.fillDefaults()

	return &c, nil
}

// GetOrCreateHomeDir returns the app directory in the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("failed to get user home dir: %w", err)
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("failed to create dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
