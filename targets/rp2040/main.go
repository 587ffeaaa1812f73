//go:build rp2040

package main

import (
	"machine"
	"strconv"

	"minuart/core"
)

const (
	baudRate     = core.DefaultBaudRate
	ledOnPercent = 50 // LED blink duty cycle

	blinkOnTicks  = core.TickFrequency * ledOnPercent / 100
	blinkOffTicks = core.TickFrequency - blinkOnTicks

	// Route TX through a PIO state machine on this pin instead of the
	// PL011 transmitter.
	usePIOTx = false
	pioTxPin = machine.GP28
)

func main() {
	core.SetGPIODriver(rpGPIODriver{})

	led, err := core.NewLed(core.GPIOPin(machine.LED))
	if err != nil {
		return
	}

	var port core.PortDriver = uart0Driver
	if usePIOTx {
		port = newPIOTxDriver(pioTxPin)
	}

	uart := core.New(port)
	if err := uart.Init(baudRate); err != nil {
		return
	}

	uart.WriteLine("Hello, World!")

	var count uint16
	buf := make([]byte, core.DefaultRxCapacity)
	for {
		led.On()
		core.SleepTicks(blinkOnTicks)
		led.Off()
		core.SleepTicks(blinkOffTicks)

		uart.WriteLine(strconv.Itoa(int(count)))
		count++

		// Drain and echo anything received during the blink period.
		n, err := uart.Read(buf)
		if err != nil {
			uart.WriteLine(err.Error())
			continue
		}
		if n > 0 {
			uart.Write(buf[:n])
		}
	}
}
