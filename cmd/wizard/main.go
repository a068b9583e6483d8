package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive questionnaire built on resumable computations",
	Long: `Wizard runs a questionnaire defined in a TOML file. The flow is written
as linear code suspended between questions; the terminal UI resumes it
through callbacks with each answer.`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to a TOML questionnaire")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "log lifecycle transitions to stderr")
	rootCmd.Flags().BoolVar(&flagPlain, "plain", false, "force the plain prompt UI")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
