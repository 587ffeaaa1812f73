//go:build rp2040

package main

import (
	"machine"

	"minuart/core"
)

// rpGPIODriver implements core.GPIODriver over the machine package.
type rpGPIODriver struct{}

func (rpGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (rpGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	machine.Pin(pin).Set(value)
	return nil
}

func (rpGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	return machine.Pin(pin).Get(), nil
}
