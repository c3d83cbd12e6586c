package runtime

import (
	"bufio"
	"io"
	"strings"
)

// LineReader is an input line source. ReadLine returns io.EOF at end of input.
type LineReader interface {
	ReadLine() (string, error)
}

// LineWriter is an output line sink.
type LineWriter interface {
	WriteLine(line string) error
}

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader reads newline-terminated lines; carriage returns are
// dropped and a final unterminated line is still returned.
func NewLineReader(r io.Reader) LineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (lr *lineReader) ReadLine() (string, error) {
	line, err := lr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if err == io.EOF && line == "" {
		return "", io.EOF
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.ReplaceAll(line, "\r", ""), nil
}

type lineWriter struct {
	w      io.Writer
	prefix string
}

// NewLineWriter writes each line followed by a newline, after prefix.
func NewLineWriter(w io.Writer, prefix string) LineWriter {
	return &lineWriter{w: w, prefix: prefix}
}

func (lw *lineWriter) WriteLine(line string) error {
	_, err := io.WriteString(lw.w, lw.prefix+line+"\n")
	return err
}

// StaticLines serves a fixed list of lines, then io.EOF.
type StaticLines struct {
	Lines []string
	pos   int
}

func NewStaticLines(lines ...string) *StaticLines {
	return &StaticLines{Lines: lines}
}

func (s *StaticLines) ReadLine() (string, error) {
	if s.pos >= len(s.Lines) {
		return "", io.EOF
	}
	line := s.Lines[s.pos]
	s.pos++
	return line, nil
}

// LineBuffer records every written line.
type LineBuffer struct {
	Lines []string
}

func (b *LineBuffer) WriteLine(line string) error {
	b.Lines = append(b.Lines, line)
	return nil
}

type discard struct{}

func (discard) WriteLine(string) error { return nil }

func (discard) ReadLine() (string, error) { return "", io.EOF }

// Discard is an empty input source and a sink that drops everything.
var Discard = discard{}
