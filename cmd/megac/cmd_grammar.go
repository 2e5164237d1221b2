package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/grammar"
)

func newGrammarCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "Grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd(s))
	cmd.AddCommand(newGrammarEbnfCmd(s))
	cmd.AddCommand(newGrammarDumpCmd(s))

	return cmd
}

func newGrammarCheckCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:           "check",
		Short:         "Report undefined and unreachable symbols",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				fmt.Println(err)
				return err
			}

			errs := grammar.Verify(g, s.start)
			if len(errs) == 0 {
				return nil
			}
			printErrors(errs)
			return fmt.Errorf("%s: %d problems", g.Name(), len(errs))
		},
	}
}

func newGrammarEbnfCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "ebnf",
		Short: "Print the grammar in EBNF notation",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}
			return grammar.WriteEBNF(os.Stdout, g)
		},
	}
}

func newGrammarDumpCmd(s *settings) *cobra.Command {
	var builtin bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the grammar as the loader understood it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if builtin {
				fmt.Print(grammar.DefaultText())
				return nil
			}
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}
			fmt.Print(g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&builtin, "builtin", false, "print the source text of the built-in grammar")

	return cmd
}

func printErrors(errs []error) {
	for _, err := range errs {
		fmt.Println(err)
	}
}
