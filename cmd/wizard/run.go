package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig string
	flagDebug  bool
	flagPlain  bool
)

func run(cmd *cobra.Command, args []string) error {
	log, err := newLogger(flagDebug)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig(flagConfig)
	if err != nil {
		return err
	}
	log.Debug("questionnaire loaded",
		zap.String("title", cfg.Title), zap.Int("questions", len(cfg.Questions)))

	var p Prompter
	if flagPlain || !isTerminal(os.Stdout) {
		p = newPlainPrompter(cfg.Title)
	} else {
		p = newTUIPrompter(cfg.Title)
	}

	answers, err := askQuestions(p, cfg, log)
	p.Close()
	if err != nil {
		return err
	}

	printSummary(cfg, answers)
	return nil
}

// newLogger returns a development logger on stderr when debug is set, and a
// no-op logger otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopmentConfig().Build()
}

func printSummary(cfg *Config, answers map[string]string) {
	head := color.New(color.Bold, color.FgGreen)
	key := color.New(color.FgCyan)

	head.Printf("%s complete\n", cfg.Title)
	for _, q := range cfg.Questions {
		key.Printf("  %s", q.Key)
		fmt.Printf(": %s\n", answers[q.Key])
	}
}
