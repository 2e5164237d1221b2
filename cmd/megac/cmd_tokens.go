package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/format"
	"github.com/dhamidi/megac/lex"
)

func newTokensCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:           "tokens <file>",
		Short:         "Print the token stream of a megac source file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}

			f, err := lex.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}

			tokens, err := lex.Tokenize(f, lex.WithMagicTokens(g.MagicTokens()...))
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return format.WriteTokens(os.Stdout, tokens)
		},
	}
}
