package core

// PortDriver is the abstract hardware interface the UART core uses.
// Platform-specific implementations handle the actual peripheral:
// register-level UART on TinyGo targets, an OS serial port bridge on
// host builds, fakes in tests.
type PortDriver interface {
	// Configure performs the opaque clock/pin/peripheral setup for the
	// requested baud rate. Called once, from Init, before ArmReceive.
	Configure(baud uint32) error

	// TxReady reports whether the hardware can accept another byte.
	// The transmit path spins on this with no timeout; a driver that
	// can block indefinitely should document that hang risk.
	TxReady() bool

	// SendByte hands one byte to the hardware. Only called after
	// TxReady has reported true.
	SendByte(b byte)

	// ArmReceive enables the receive interrupt (or its host-side
	// stand-in) and registers fn as the per-byte entry point. fn is
	// invoked exactly once per incoming byte, asynchronously with
	// respect to all other driver code, and must return quickly.
	ArmReceive(fn func(b byte)) error
}
