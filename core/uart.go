// Package core implements a buffered, interrupt-driven UART driver:
// asynchronous per-byte reception into a fixed-capacity buffer with
// sticky overflow latching, and blocking byte-at-a-time transmission.
// Hardware access goes through the PortDriver interface so the same
// core runs on TinyGo targets, against an OS serial port, or in tests.
package core

import (
	"tinygo.org/x/drivers"
)

// DefaultBaudRate matches the original firmware configuration (8N1).
const DefaultBaudRate = 115200

// UART owns the receive buffer shared with the interrupt-side handler.
// Create one per hardware port with New and call Init exactly once
// before any Read or Write.
type UART struct {
	port PortDriver
	lock rxLock
	rx   rxBuffer

	initialized bool
}

// core.UART is usable wherever a TinyGo ecosystem driver wants a UART.
var _ drivers.UART = (*UART)(nil)

// New returns a UART with the default receive capacity.
func New(port PortDriver) *UART {
	return NewWithCapacity(port, DefaultRxCapacity)
}

// NewWithCapacity returns a UART whose receive buffer holds capacity
// bytes. The buffer is allocated here, once; it is never resized.
func NewWithCapacity(port PortDriver, capacity int) *UART {
	return &UART{
		port: port,
		rx:   newRxBuffer(capacity),
	}
}

// Init configures the hardware collaborators and arms the receive
// interrupt. Must be called exactly once before any other call.
func (u *UART) Init(baud uint32) error {
	if u.initialized {
		return ErrAlreadyInitialized
	}
	if err := u.port.Configure(baud); err != nil {
		return err
	}
	if err := u.port.ArmReceive(u.receiveByte); err != nil {
		return err
	}
	u.initialized = true
	debugPrint("uart: initialized")
	return nil
}

// receiveByte is the receive handler: the per-byte entry point invoked
// by the hardware dispatch mechanism (ISR on TinyGo targets, reader
// goroutine on host builds). It only mutates buffer state; overflow is
// latched, never reported from here.
func (u *UART) receiveByte(b byte) {
	u.lock.handlerEnter()
	u.rx.put(b)
	u.lock.handlerExit()
}

// Read drains up to len(p) buffered bytes into p and returns the count.
// If an overflow was latched since the last call, Read resets the
// buffer and returns the corresponding error with no bytes copied.
// An empty buffer yields (0, nil).
//
// The whole operation runs with the receive handler excluded. The
// exclusion lasts for the compaction of the unread tail, so its
// duration grows with the number of buffered bytes.
// TODO: switch to a ring buffer to make the critical section O(1);
// the overrun flag is already reserved for that design.
func (u *UART) Read(p []byte) (int, error) {
	if !u.initialized {
		return 0, ErrNotInitialized
	}

	state := u.lock.exclude()
	if err := u.rx.latched(); err != nil {
		u.rx.reset()
		u.lock.restore(state)
		debugPrint("uart: " + err.Error() + ", buffer reset")
		return 0, err
	}
	n := u.rx.drain(p)
	u.lock.restore(state)
	return n, nil
}

// ReadByte returns the next buffered byte, or ErrRxBufferEmpty when
// nothing is buffered.
func (u *UART) ReadByte() (byte, error) {
	var b [1]byte
	n, err := u.Read(b[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrRxBufferEmpty
	}
	return b[0], nil
}

// Buffered returns the number of bytes currently held in the receive
// buffer.
func (u *UART) Buffered() int {
	state := u.lock.exclude()
	n := u.rx.occupied
	u.lock.restore(state)
	return n
}

// Reset empties the receive buffer and clears both sticky error flags,
// atomically with respect to the receive handler.
func (u *UART) Reset() {
	state := u.lock.exclude()
	u.rx.reset()
	u.lock.restore(state)
}

// Write transmits every byte of p, blocking on hardware readiness
// before each one. It always completes the full slice; there is no
// partial-write path.
func (u *UART) Write(p []byte) (int, error) {
	if !u.initialized {
		return 0, ErrNotInitialized
	}
	for _, b := range p {
		u.writeByte(b)
	}
	return len(p), nil
}

// WriteString transmits s.
func (u *UART) WriteString(s string) (int, error) {
	return u.Write([]byte(s))
}

// WriteLine transmits s followed by the two-byte line terminator the
// original firmware used: line feed, then carriage return.
func (u *UART) WriteLine(s string) error {
	if _, err := u.WriteString(s); err != nil {
		return err
	}
	u.writeByte('\n')
	u.writeByte('\r')
	return nil
}

// writeByte spins until the hardware reports transmit-ready, then hands
// off the byte. The spin is unconditional: if the hardware never
// becomes ready this blocks forever, matching the origin design.
func (u *UART) writeByte(b byte) {
	for !u.port.TxReady() {
	}
	u.port.SendByte(b)
}
