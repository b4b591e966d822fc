package client

import (
	"io"
	"time"

	"github.com/whileendless-successor/rawclient/pkg/clock"
	"github.com/whileendless-successor/rawclient/pkg/constants"
	"github.com/whileendless-successor/rawclient/pkg/transport"
)

// lineReader reads CRLF-terminated lines off a Transport, bounded to
// constants.LineMax-1 bytes per line. Unlike bufio.Reader.ReadString('\n'),
// which grows its buffer without bound against a line that never
// terminates, lines here are always capped.
//
// lineReader also implements chunked.Source, since response-body bytes
// (chunked or not) are read off the same underlying stream the status
// line and headers were read from.
type lineReader struct {
	t        transport.Transport
	idle     time.Duration
	clock    clock.Clock
	blocking bool
}

func newLineReader(t transport.Transport, idle time.Duration, c clock.Clock, blocking bool) *lineReader {
	return &lineReader{t: t, idle: idle, clock: c, blocking: blocking}
}

// ReadLine reads one line with its terminator stripped. A bare '\n' or a
// "\r\n" pair both terminate the line; only the trailing '\r' is removed.
func (lr *lineReader) ReadLine() (string, error) {
	line := make([]byte, 0, 128)
	buf := make([]byte, 1)

	for {
		n, err := transport.BlockRead(lr.t, buf, lr.idle, lr.clock)
		if n == 0 {
			if err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}

		ch := buf[0]
		if ch == '\n' {
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			return string(line), nil
		}
		if len(line) < constants.LineMax-1 {
			line = append(line, ch)
		}
	}
}

// Read implements chunked.Source / io.Reader, reading chunk-body bytes
// (never the chunk-size line itself, which always goes through ReadLine)
// via the blocking helper or a direct adapter pass-through depending on
// Options.Blocking.
func (lr *lineReader) Read(p []byte) (int, error) {
	if !lr.blocking {
		n, err := lr.t.Read(p)
		return int(n), err
	}
	n, err := transport.BlockRead(lr.t, p, lr.idle, lr.clock)
	return int(n), err
}
