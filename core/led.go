package core

// Led is a digital output driven through the registered GPIO driver.
// It backs the status blink in the demo mains.
type Led struct {
	pin GPIOPin
	on  bool
}

// NewLed configures pin as an output and returns it switched off.
func NewLed(pin GPIOPin) (*Led, error) {
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		return nil, err
	}
	led := &Led{pin: pin}
	if err := led.Off(); err != nil {
		return nil, err
	}
	return led, nil
}

// On switches the LED on.
func (l *Led) On() error {
	if err := MustGPIO().SetPin(l.pin, true); err != nil {
		return err
	}
	l.on = true
	return nil
}

// Off switches the LED off.
func (l *Led) Off() error {
	if err := MustGPIO().SetPin(l.pin, false); err != nil {
		return err
	}
	l.on = false
	return nil
}

// Toggle flips the LED state.
func (l *Led) Toggle() error {
	if l.on {
		return l.Off()
	}
	return l.On()
}

// IsOn reports the last commanded state.
func (l *Led) IsOn() bool {
	return l.on
}
