package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/workspace"
)

func newCheckCmd(s *settings) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:          "check [paths...]",
		Short:        "Parse megac sources and report syntax errors",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch takes a single directory")
				}
				return watchDir(cmd.Context(), s, g, args[0])
			}

			var checked, failed int
			for _, path := range args {
				ws, err := scan(s, g, path)
				if err != nil {
					return err
				}
				checked += len(ws.Files())
				for _, d := range ws.Diagnostics() {
					printDiagnostic(d)
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed to parse", failed, checked)
			}
			fmt.Printf("%d files ok\n", checked)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling the directory and report files as they change")

	return cmd
}

// scan loads path into a fresh workspace. A directory is scanned
// recursively, a file is parsed on its own.
func scan(s *settings, g *grammar.Grammar, path string) (*workspace.Workspace, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		ws := workspace.New(filepath.Dir(path), g, s.parseOptions()...)
		if _, err := ws.ScanFile(path); err != nil {
			return nil, fmt.Errorf("read source file: %w", err)
		}
		return ws, nil
	}

	ws := workspace.New(path, g, s.parseOptions()...)
	if err := ws.ScanAll(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return ws, nil
}

func watchDir(ctx context.Context, s *settings, g *grammar.Grammar, dir string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	ws := workspace.New(dir, g, s.parseOptions()...)
	w := workspace.NewWatcher(ws,
		workspace.OnChange(func(f *workspace.FileInfo) {
			if f.Err != nil {
				printDiagnostic(workspace.DiagnosticFor(f.Path, f.Err))
				return
			}
			fmt.Printf("%s: ok\n", f.Path)
		}),
		workspace.OnRemove(func(path string) {
			fmt.Printf("%s: removed\n", path)
		}),
	)

	w.Start()
	<-ctx.Done()
	w.Stop()
	return nil
}

func printDiagnostic(d workspace.Diagnostic) {
	fmt.Println(d)
	if _, rest, ok := strings.Cut(d.Detail, "\n"); ok {
		fmt.Println(rest)
	}
}
