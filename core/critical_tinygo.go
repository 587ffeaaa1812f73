//go:build tinygo

package core

import "runtime/interrupt"

// On TinyGo targets the consumer excludes the receive handler by
// masking interrupts; the handler itself runs inside the ISR and needs
// no locking (single interrupt line, not re-entrant).
type rxLock struct{}

type rxLockState = interrupt.State

func (l *rxLock) exclude() rxLockState {
	return interrupt.Disable()
}

func (l *rxLock) restore(state rxLockState) {
	interrupt.Restore(state)
}

// The handler already runs with the receive interrupt excluded by
// hardware, so these are no-ops.
func (l *rxLock) handlerEnter() {}

func (l *rxLock) handlerExit() {}
