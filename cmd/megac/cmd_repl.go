package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/format"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
	"github.com/dhamidi/megac/parse"
)

const (
	historyFile = ".megac_history"
	promptMain  = "megac> "
	promptCont  = "   ... "
)

func newReplCmd(s *settings) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:          "repl",
		Short:        "Parse snippets interactively",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := s.loadGrammar()
			if err != nil {
				return err
			}
			r := &repl{
				parser: parse.New(g, s.parseOptions()...),
				g:      g,
				opts:   s.parseOptions(),
				format: outputFormat,
				out:    os.Stdout,
			}
			return r.run()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format (text, json, line)")

	return cmd
}

type repl struct {
	parser *parse.Parser
	g      *grammar.Grammar
	opts   []parse.Option
	format string
	out    io.Writer
}

func (r *repl) run() error {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintf(r.out, "megac %s, grammar %s, start symbol %s. Type :help for commands.\n", version, r.g.Name(), r.parser.Start())

	for {
		src, ok := r.read(ln)
		if !ok {
			fmt.Fprintln(r.out)
			return nil
		}

		line := strings.TrimSpace(src)
		if line == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		if strings.HasPrefix(line, ":") {
			if quit := r.command(line); quit {
				return nil
			}
			continue
		}
		r.eval(src)
	}
}

// read collects lines until they form a complete parse, or a failure that
// more input cannot fix.
func (r *repl) read(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") || strings.TrimSpace(line) == "" {
			return src, true
		}
		if _, err := r.parse(src); incomplete(err) {
			continue
		}
		return src, true
	}
}

func (r *repl) parse(src string) (*ast.Tree, error) {
	f := lex.NewFile("<repl>", []byte(src))
	tokens, err := lex.Tokenize(f, lex.WithMagicTokens(r.g.MagicTokens()...))
	if err != nil {
		return nil, err
	}
	return r.parser.Parse(tokens)
}

// incomplete reports whether err would go away with more input: the parser
// ran out of tokens, or a block comment is still open.
func incomplete(err error) bool {
	var se *parse.SyntaxError
	if errors.As(err, &se) {
		return se.AtEOF() && se.Last != nil
	}
	var te *parse.TrailingInputError
	if errors.As(err, &te) {
		return te.Failure != nil && te.Failure.AtEOF()
	}
	var le *lex.Error
	if errors.As(err, &le) {
		return le.Message == "unclosed block comment"
	}
	return false
}

func (r *repl) eval(src string) {
	tree, err := r.parse(src)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	enc, err := format.New(r.format, r.out)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if err := enc.Encode(tree); err != nil {
		fmt.Fprintln(r.out, err)
	}
}

func (r *repl) command(line string) (quit bool) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q":
		return true
	case ":format":
		if _, err := format.New(arg, io.Discard); err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		r.format = arg
	case ":tokens":
		tokens, err := lex.Tokenize(lex.NewFile("<repl>", []byte(arg)), lex.WithMagicTokens(r.g.MagicTokens()...))
		if err != nil {
			fmt.Fprintln(r.out, err)
			break
		}
		_ = format.WriteTokens(r.out, tokens)
	case ":start":
		if _, ok := r.g.Lookup(arg); !ok {
			fmt.Fprintf(r.out, "unknown symbol %q\n", arg)
			break
		}
		r.parser = parse.New(r.g, append(r.opts, parse.WithStart(arg))...)
	case ":help":
		fmt.Fprintln(r.out, ":format text|json|line  change the tree output format")
		fmt.Fprintln(r.out, ":tokens <source>         print the tokens of a snippet")
		fmt.Fprintln(r.out, ":start <symbol>          parse snippets as another symbol")
		fmt.Fprintln(r.out, ":quit                    leave the repl")
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for commands.\n", name)
	}
	return false
}
