package lex

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

var bom = []byte("\xef\xbb\xbf")

// File is a normalized source file: no byte order mark and every line
// terminator rewritten to a single '\n'.
type File struct {
	Name       string
	Data       []byte
	lineStarts []int
}

func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return NewFile(path, data), nil
}

func NewFile(name string, data []byte) *File {
	f := &File{
		Name: name,
		Data: normalize(data),
	}
	f.lineStarts = append(f.lineStarts, 0)
	for i, ch := range f.Data {
		if ch == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

func normalize(data []byte) []byte {
	data = bytes.TrimPrefix(data, bom)
	if bytes.IndexByte(data, '\r') < 0 {
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		ch := data[i]
		if ch == '\r' {
			if i+1 < len(data) && data[i+1] == '\n' {
				i++
			}
			ch = '\n'
		}
		out = append(out, ch)
	}
	return out
}

// LineCount returns the number of lines, counting a trailing partial line.
func (f *File) LineCount() int {
	return len(f.lineStarts)
}

// Line returns the text of the 1-based line n without its terminator.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lineStarts) {
		return ""
	}
	start := f.lineStarts[n-1]
	end := len(f.Data)
	if n < len(f.lineStarts) {
		end = f.lineStarts[n] - 1
	}
	return string(f.Data[start:end])
}

// Excerpt renders the line of start with a caret run under [start,end).
// Spans that leave the line get a single caret.
func (f *File) Excerpt(start, end Position) string {
	line := f.Line(start.Line)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%5d | %s\n", start.Line, line)
	sb.WriteString("      | ")

	col := start.Column - 1
	if col > len(line) {
		col = len(line)
	}
	for i := 0; i < col; i++ {
		if line[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}

	width := 1
	if end.Line == start.Line && end.Column > start.Column {
		width = end.Column - start.Column
	}
	sb.WriteString(strings.Repeat("^", width))
	return sb.String()
}
