package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/parse"
)

const version = "0.1.0"

// settings holds the persistent flags shared by every subcommand.
type settings struct {
	grammarFile string
	start       string
	verbose     int
	logFile     string
}

func main() {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:     "megac",
		Short:   "Grammar-driven parser for the megac language",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var path *string
			if s.logFile != "" {
				path = &s.logFile
			}
			commonlog.Configure(s.verbose, path)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.grammarFile, "grammar", os.Getenv("MEGAC_GRAMMAR"), "grammar file (default: built-in megac grammar)")
	flags.StringVar(&s.start, "start", envOr("MEGAC_START", parse.DefaultStart), "start symbol")
	flags.CountVarP(&s.verbose, "verbose", "v", "increase log verbosity")
	flags.StringVar(&s.logFile, "log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd(s))
	rootCmd.AddCommand(newTokensCmd(s))
	rootCmd.AddCommand(newCheckCmd(s))
	rootCmd.AddCommand(newGrammarCmd(s))
	rootCmd.AddCommand(newReplCmd(s))
	rootCmd.AddCommand(newLSPCmd(s))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadGrammar returns the grammar named by --grammar, or the built-in one.
func (s *settings) loadGrammar() (*grammar.Grammar, error) {
	if s.grammarFile == "" {
		g, err := grammar.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in grammar: %w", err)
		}
		return g, nil
	}
	g, err := grammar.LoadFile(s.grammarFile)
	if err != nil {
		return nil, fmt.Errorf("load grammar: %w", err)
	}
	return g, nil
}

func (s *settings) parseOptions() []parse.Option {
	return []parse.Option{parse.WithStart(s.start)}
}
