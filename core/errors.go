package core

import "errors"

var (
	// ErrRxBufferFull is returned by Read after the receive buffer hit
	// capacity and at least one incoming byte was dropped. The buffer is
	// reset before the error is returned.
	ErrRxBufferFull = errors.New("uart: rx buffer full, data lost")

	// ErrRxOverrun is reserved for a hardware/double-buffer ordering
	// violation. No code path raises it today; Read still checks and
	// clears it so a future ring-buffer receive path can latch it.
	ErrRxOverrun = errors.New("uart: rx overrun, data lost")

	// ErrRxBufferEmpty is returned by ReadByte when no byte is buffered.
	ErrRxBufferEmpty = errors.New("uart: rx buffer empty")

	// ErrAlreadyInitialized is returned when Init is called twice.
	ErrAlreadyInitialized = errors.New("uart: already initialized")

	// ErrNotInitialized is returned by I/O calls before Init.
	ErrNotInitialized = errors.New("uart: not initialized")
)
