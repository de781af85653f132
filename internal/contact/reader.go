package contact

import (
	"bufio"
	"io"
	"strings"
)

// LineReader yields newline-delimited lines and tracks how many were read.
type LineReader struct {
	br   *bufio.Reader
	line int
}

// NewLineReader wraps r in a LineReader.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReader(r)}
}

// ReadLine returns the next line without its terminator. A trailing CR is
// dropped so CRLF files load. A final line without a newline is returned
// normally; io.EOF is reported only when no bytes remain.
func (r *LineReader) ReadLine() (string, error) {
	s, err := r.br.ReadString('\n')
	if err != nil {
		if err != io.EOF || s == "" {
			return "", err
		}
	}
	r.line++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, nil
}

// Line returns the number of lines consumed so far.
func (r *LineReader) Line() int {
	return r.line
}
