package transport

import (
	"time"

	"github.com/whileendless-successor/rawclient/pkg/clock"
)

// BlockRead reads from t in a loop until buf is exhausted of room, an
// error occurs, or idle has elapsed with no progress.
func BlockRead(t Transport, buf []byte, idle time.Duration, c clock.Clock) (int64, error) {
	timer := clock.NewIdleTimer(c)
	var total int64
	for total < int64(len(buf)) {
		n, err := t.Read(buf[total:])
		if err != nil {
			return total, err
		}
		if n > 0 {
			total += n
			timer.Progress()
			continue
		}
		if timer.Expired(idle) {
			break
		}
	}
	return total, nil
}

// BlockWrite writes buf to t in a loop until it is fully written, an
// error occurs, or idle has elapsed with no progress.
func BlockWrite(t Transport, buf []byte, idle time.Duration, c clock.Clock) (int64, error) {
	timer := clock.NewIdleTimer(c)
	var total int64
	for total < int64(len(buf)) {
		n, err := t.Write(buf[total:])
		if err != nil {
			return total, err
		}
		if n > 0 {
			total += n
			timer.Progress()
			continue
		}
		if timer.Expired(idle) {
			break
		}
	}
	return total, nil
}
