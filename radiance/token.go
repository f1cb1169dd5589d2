package radiance

import (
	"fmt"
	"io"
)

// tokenReader splits the textual header into lines terminated by '\n' or NUL.
// Blank lines and lines starting with '#' are skipped.
type tokenReader struct {
	src      io.ByteReader
	capacity int
	buf      []byte
}

func newTokenReader(src io.ByteReader, capacity int) *tokenReader {
	return &tokenReader{
		src:      src,
		capacity: capacity,
		buf:      make([]byte, 0, capacity),
	}
}

// Next returns the next non-comment line. Lines longer than capacity-1 bytes
// are truncated and the rest of the line is discarded. ErrEndOfStream is
// returned once the stream is exhausted without producing a token.
func (tr *tokenReader) Next() (string, error) {
	for {
		line, eof, err := tr.readLine()
		if err != nil {
			return "", err
		}

		if len(line) > 0 && line[0] != '#' {
			return string(line), nil
		}
		if len(line) > 0 {
			logger().Debug("skipped header comment", "line", string(line))
		}
		if eof {
			return "", ErrEndOfStream
		}
	}
}

func (tr *tokenReader) readLine() (line []byte, eof bool, err error) {
	tr.buf = tr.buf[:0]
	for {
		c, err := tr.src.ReadByte()
		if err == io.EOF {
			return tr.buf, true, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("%w: reading header: %w", ErrIO, err)
		}
		if c == '\n' || c == 0 {
			return tr.buf, false, nil
		}
		if len(tr.buf) < tr.capacity-1 {
			tr.buf = append(tr.buf, c)
		}
	}
}
