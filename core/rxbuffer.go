package core

// DefaultRxCapacity is the receive buffer size used by New.
const DefaultRxCapacity = 128

// rxBuffer is the shared state between the receive handler (interrupt
// side) and the consumer (Read/Reset). It holds received bytes as a
// contiguous prefix of buf: valid data always lives at [0, occupied),
// and writeCursor == occupied between handler invocations.
//
// None of these methods synchronize. The caller must hold the UART's
// receive exclusion (rxLock) for every call that does not come from the
// handler itself; the handler runs with the receive interrupt already
// excluded on hardware targets and takes the same lock on host builds.
type rxBuffer struct {
	buf         []byte // allocated once, never resized
	occupied    int
	writeCursor int

	// Sticky error flags. Once either is set the handler drops all
	// incoming bytes until reset clears them.
	fullErr    bool
	overrunErr bool
}

func newRxBuffer(capacity int) rxBuffer {
	if capacity <= 0 {
		capacity = DefaultRxCapacity
	}
	return rxBuffer{buf: make([]byte, capacity)}
}

func (rx *rxBuffer) capacity() int {
	return len(rx.buf)
}

// put stores one received byte. When the buffer is at capacity it
// latches fullErr and discards the byte; the loss is only observable
// through the next Read. Returns whether the byte was stored.
func (rx *rxBuffer) put(b byte) bool {
	if rx.fullErr || rx.overrunErr {
		return false
	}
	if rx.occupied >= len(rx.buf) {
		rx.fullErr = true
		return false
	}
	rx.buf[rx.writeCursor] = b
	rx.writeCursor++
	rx.occupied++
	return true
}

// latched returns the error corresponding to a set flag, or nil.
func (rx *rxBuffer) latched() error {
	if rx.fullErr {
		return ErrRxBufferFull
	}
	if rx.overrunErr {
		return ErrRxOverrun
	}
	return nil
}

// drain copies up to len(p) buffered bytes into p and compacts the
// remainder down to offset 0. Returns the number of bytes copied.
func (rx *rxBuffer) drain(p []byte) int {
	n := rx.occupied
	if len(p) < n {
		n = len(p)
	}
	copy(p, rx.buf[:n])

	// Shift the unread tail to the front. copy has memmove semantics,
	// so the overlapping regions are handled correctly.
	copy(rx.buf, rx.buf[n:rx.occupied])
	rx.occupied -= n
	rx.writeCursor = rx.occupied
	return n
}

// reset empties the buffer and clears both sticky flags.
func (rx *rxBuffer) reset() {
	rx.occupied = 0
	rx.writeCursor = 0
	rx.fullErr = false
	rx.overrunErr = false
}
