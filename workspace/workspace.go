// Package workspace keeps the parse results of every megac source file
// under a root directory.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/megac/ast"
	"github.com/dhamidi/megac/grammar"
	"github.com/dhamidi/megac/lex"
	"github.com/dhamidi/megac/parse"
)

var log = commonlog.GetLogger("megac.workspace")

// Ext is the file extension of megac sources.
const Ext = ".mc"

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	grammar *grammar.Grammar
	opts    []parse.Option
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Content []byte
	Tree    *ast.Tree
	Err     error
}

func New(rootDir string, g *grammar.Grammar, opts ...parse.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		grammar: g,
		opts:    opts,
		files:   make(map[string]*FileInfo),
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

func (w *Workspace) Grammar() *grammar.Grammar {
	return w.grammar
}

// IsSource reports whether path names a megac source file.
func IsSource(path string) bool {
	return filepath.Ext(path) == Ext
}

// ScanAll parses every source file below the root directory, skipping
// hidden directories.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if _, err := w.ScanFile(path); err != nil {
				log.Warningf("%s: %s", path, err)
			}
		}
		return nil
	})
}

// ScanFile reads and parses path. The returned error is only set when the
// file cannot be read; parse failures are kept in FileInfo.Err.
func (w *Workspace) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return w.UpdateFile(path, content), nil
}

// UpdateFile parses content as the new text of path.
func (w *Workspace) UpdateFile(path string, content []byte) *FileInfo {
	f := lex.NewFile(path, content)
	tree, err := parse.File(w.grammar, f, w.opts...)
	if err != nil {
		log.Debugf("%s: %s", path, firstLine(err.Error()))
	}

	info := &FileInfo{
		Path:    path,
		Content: content,
		Tree:    tree,
		Err:     err,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = info
	return info
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns every known file sorted by path.
func (w *Workspace) Files() []*FileInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]*FileInfo, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Diagnostic is a parse or tokenizer failure pinned to a source position.
type Diagnostic struct {
	Path    string
	Pos     lex.Position
	Message string
	// Detail is the full error text, excerpt included.
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", d.Path, d.Pos.Line, d.Pos.Column, d.Message)
}

// Diagnostics returns one entry per file that failed to parse, sorted by
// path.
func (w *Workspace) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, f := range w.Files() {
		if f.Err != nil {
			diags = append(diags, DiagnosticFor(f.Path, f.Err))
		}
	}
	return diags
}

type positioner interface {
	Position() lex.Position
}

// DiagnosticFor converts an error returned by parse.File into a
// Diagnostic.
func DiagnosticFor(path string, err error) Diagnostic {
	d := Diagnostic{
		Path:    path,
		Pos:     lex.Position{File: path, Line: 1, Column: 1},
		Message: firstLine(err.Error()),
		Detail:  err.Error(),
	}

	var lexErr *lex.Error
	var p positioner
	switch {
	case errors.As(err, &lexErr):
		d.Pos = lexErr.Pos
		d.Message = lexErr.Message
	case errors.As(err, &p):
		d.Pos = p.Position()
	}
	return d
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
