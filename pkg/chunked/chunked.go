// Package chunked implements the transparent chunked transfer-encoding
// decoder sitting between a response body stream and its caller.
package chunked

import (
	"io"
	"strings"

	rherrors "github.com/whileendless-successor/rawclient/pkg/errors"
)

// Source is the minimal byte source a Reader decodes against: a bounded
// line reader for chunk-size lines plus a raw reader for chunk bodies and
// trailing CRLFs.
type Source interface {
	// ReadLine returns the next CRLF- or LF-terminated line with the
	// terminator stripped, bounded the same way the response header
	// reader is bounded.
	ReadLine() (string, error)
	// Read reads up to len(p) raw bytes, the same contract as io.Reader.
	Read(p []byte) (int, error)
}

// Reader decodes a chunked-transfer-encoded body into a plain byte
// stream: skip the trailing CRLF of the previous chunk, parse the next
// chunk-size line, then read up to that many bytes before repeating.
type Reader struct {
	src       Source
	chunkSize uint32
	chunkRead uint32
	done      bool
}

// NewReader wraps src as a chunked decoder.
func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// Read implements io.Reader. It returns io.EOF once the terminating
// zero-size chunk has been consumed.
func (r *Reader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}

	// finish the previous chunk: consume its trailing CRLF
	if r.chunkRead > 0 && r.chunkRead >= r.chunkSize {
		r.chunkSize = 0
		r.chunkRead = 0
		if err := r.skipCRLF(); err != nil {
			return 0, rherrors.NewChunkedError("missing chunk trailer", err)
		}
	}

	// parse the next chunk-size line
	if r.chunkSize == 0 {
		line, err := r.src.ReadLine()
		if err != nil {
			return 0, rherrors.NewChunkedError("failed to read chunk-size line", err)
		}
		size, perr := parseChunkSize(line)
		if perr != nil {
			return 0, rherrors.NewChunkedError("malformed chunk-size line: "+line, perr)
		}
		r.chunkSize = size
		if r.chunkSize == 0 {
			r.done = true
			return 0, io.EOF
		}
	}

	if r.chunkRead >= r.chunkSize {
		return 0, io.EOF
	}

	remaining := r.chunkSize - r.chunkRead
	want := uint32(len(p))
	if want > remaining {
		want = remaining
	}

	n, err := r.src.Read(p[:want])
	if n > 0 {
		r.chunkRead += uint32(n)
	}
	if err != nil && err != io.EOF {
		return n, rherrors.NewChunkedError("short read in chunk body", err)
	}
	return n, nil
}

// skipCRLF consumes exactly 2 bytes (the chunk's trailing CRLF),
// tracking actual progress rather than a fixed iteration count: a
// (0, nil) result means the underlying reader idled out with no
// progress (lineReader.Read's BlockRead-backed contract), which is a
// stall here, not success, and must fail the same as a real error.
func (r *Reader) skipCRLF() error {
	buf := make([]byte, 1)
	consumed := 0
	for consumed < 2 {
		n, err := r.src.Read(buf)
		if n > 0 {
			consumed += n
			continue
		}
		if err != nil {
			return err
		}
		return io.ErrUnexpectedEOF
	}
	return nil
}

// parseChunkSize reads a hex chunk-size line, ignoring any trailing
// chunk-extension (";foo=bar") and stopping at the first non-hex digit.
func parseChunkSize(line string) (uint32, error) {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)

	var size uint32
	consumed := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		var digit uint32
		switch {
		case c >= '0' && c <= '9':
			digit = uint32(c - '0')
		case c >= 'a' && c <= 'f':
			digit = uint32(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = uint32(c-'A') + 10
		default:
			i = len(line)
			continue
		}
		size = size<<4 | digit
		consumed++
	}
	if consumed == 0 {
		return 0, io.ErrUnexpectedEOF
	}
	return size, nil
}
