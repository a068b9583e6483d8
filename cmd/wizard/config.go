package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config describes a questionnaire. Questions are asked in file order.
type Config struct {
	Title     string     `toml:"title"`
	Questions []Question `toml:"question"`
}

// Question is a single prompt. An empty answer falls back to Default.
type Question struct {
	Key     string `toml:"key"`
	Prompt  string `toml:"prompt"`
	Default string `toml:"default"`
}

const defaultConfigFile = "wizard.toml"

func defaultConfig() *Config {
	return &Config{
		Title: "New project",
		Questions: []Question{
			{Key: "name", Prompt: "Project name", Default: "hello"},
			{Key: "module", Prompt: "Module path", Default: "example.com/hello"},
			{Key: "license", Prompt: "License", Default: "MIT"},
			{Key: "author", Prompt: "Author"},
		},
	}
}

// loadConfig reads path, or wizard.toml in the working directory when path is
// empty. A missing implicit file falls back to the built-in questionnaire.
func loadConfig(path string) (*Config, error) {
	implicit := path == ""
	if implicit {
		path = defaultConfigFile
		if _, err := os.Stat(path); err != nil {
			return defaultConfig(), nil
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if cfg.Title == "" {
		cfg.Title = "Questionnaire"
	}
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("load %s: no questions defined", path)
	}
	for i, q := range cfg.Questions {
		if q.Key == "" || q.Prompt == "" {
			return nil, fmt.Errorf("load %s: question %d needs both key and prompt", path, i+1)
		}
	}
	return &cfg, nil
}
