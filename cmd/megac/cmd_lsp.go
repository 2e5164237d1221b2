package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/lsp"
)

func newLSPCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}
			server := lsp.NewServer(g, version, s.parseOptions()...)
			return server.RunStdio()
		},
	}
}
