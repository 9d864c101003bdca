package delimited

import (
	"bufio"
	"bytes"
	"io"
	"math"
	"strings"
)

const utf8BOM = "\uFEFF"

// LineReader yields one physical line at a time from an io.Reader without
// buffering the whole input. Lines end at "\n", "\r\n" or a lone "\r"; the
// terminator is not part of the returned text. A final line without a
// terminator is still returned, and a trailing terminator does not produce an
// extra empty line.
//
// A UTF-8 byte order mark at the very start of the input is dropped.
//
// Usage:
//
//	lr := delimited.NewLineReader(r)
//	for lr.Next() {
//		line := lr.Text()
//	}
//	if err := lr.Err(); err != nil { ... }
type LineReader struct {
	sc   *bufio.Scanner
	line string
	n    int64
}

// NewLineReader wraps r. Lines are not length-limited.
func NewLineReader(r io.Reader) *LineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), math.MaxInt)
	sc.Split(scanLines)
	return &LineReader{sc: sc}
}

// Next advances to the next line. It returns false at end of input or on a
// read error; check Err afterwards.
func (l *LineReader) Next() bool {
	if !l.sc.Scan() {
		return false
	}
	line := l.sc.Text()
	if l.n == 0 {
		line = strings.TrimPrefix(line, utf8BOM)
	}
	l.line = line
	l.n++
	return true
}

// Text returns the current line.
func (l *LineReader) Text() string { return l.line }

// Line returns the 1-based number of the current line.
func (l *LineReader) Line() int64 { return l.n }

// Err returns the first non-EOF read error.
func (l *LineReader) Err() error { return l.sc.Err() }

// scanLines is bufio.ScanLines extended to a lone "\r". A "\r" at the end of
// the buffered data waits for one more byte so a following "\n" is consumed
// with it.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	switch {
	case i < 0:
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	case data[i] == '\n':
		return i + 1, data[:i], nil
	case i+1 < len(data):
		if data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	case atEOF:
		return i + 1, data[:i], nil
	default:
		return 0, nil, nil
	}
}
