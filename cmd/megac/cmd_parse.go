package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/format"
	"github.com/dhamidi/megac/lex"
	"github.com/dhamidi/megac/parse"
)

func newParseCmd(s *settings) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:           "parse <file>",
		Short:         "Parse a megac source file and dump the tree",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			encoder, err := format.New(outputFormat, os.Stdout)
			if err != nil {
				return err
			}

			g, err := s.loadGrammar()
			if err != nil {
				return err
			}

			f, err := lex.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read source file: %w", err)
			}

			tree, err := parse.File(g, f, s.parseOptions()...)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if err := encoder.Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, line)")

	return cmd
}
