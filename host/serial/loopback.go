package serial

import (
	"io"
	"sync"
)

// Loopback is an in-memory Port whose TX line is wired back to its RX
// line: everything written becomes readable. It stands in for real
// hardware in tests and in the demo's loopback mode.
type Loopback struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	closed bool
}

// NewLoopback returns an open loopback port.
func NewLoopback() *Loopback {
	l := &Loopback{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Read blocks until at least one byte is available or the port is
// closed, then returns as much as fits in b.
func (l *Loopback) Read(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.buf) == 0 {
		if l.closed {
			return 0, io.EOF
		}
		l.cond.Wait()
	}

	n := copy(b, l.buf)
	l.buf = l.buf[n:]
	return n, nil
}

// Write loops b back into the read side.
func (l *Loopback) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, io.ErrClosedPipe
	}
	l.buf = append(l.buf, b...)
	l.cond.Broadcast()
	return len(b), nil
}

// Close unblocks pending reads with io.EOF.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.cond.Broadcast()
	return nil
}

// Flush is a no-op; loopback writes are immediately readable.
func (l *Loopback) Flush() error {
	return nil
}
