//go:build rp2040

package main

// Alternate transmit path using a PIO state machine, so the PL011
// transmitter can be left to a debug console. Reception stays on the
// PL011.

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// buildUARTTxProgram assembles an 8N1 UART transmitter running at
// 8 PIO cycles per bit:
//
//  1. Pull a byte from the FIFO (stalls with the line held at mark)
//  2. Load the bit counter
//  3. Drive the start bit for one bit time
//  4. Shift out 8 data bits, LSB first, one bit time each
//  5. Drive the stop bit, then wrap back to the pull
func buildUARTTxProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),                   // 0: pull block
		asm.Set(rp2pio.SetDestX, 7).Encode(),             // 1: set x, 7
		asm.Set(rp2pio.SetDestPins, 0).Delay(7).Encode(), // 2: set pins, 0 [7] (start bit)
		// bitloop:
		asm.Out(rp2pio.OutDestPins, 1).Delay(6).Encode(), // 3: out pins, 1 [6]
		asm.Jmp(3, rp2pio.JmpXNZeroDec).Encode(),         // 4: jmp x--, 3
		asm.Set(rp2pio.SetDestPins, 1).Delay(7).Encode(), // 5: set pins, 1 [7] (stop bit)
		// .wrap
	}
}

const uartTxPIOOrigin = 0 // Load at offset 0 for correct jump addresses

type pioTx struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin machine.Pin
}

func (t *pioTx) init(pin machine.Pin, baud uint32) error {
	t.pio = rp2pio.PIO0
	t.sm = t.pio.StateMachine(0)
	t.pin = pin

	t.sm.TryClaim()

	program := buildUARTTxProgram()
	offset, err := t.pio.AddProgram(program, uartTxPIOOrigin)
	if err != nil {
		return err
	}

	pin.Configure(machine.PinConfig{Mode: t.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(pin, 1)
	cfg.SetOutPins(pin, 1)

	// Shift right so data bits leave LSB first; no autopull.
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	// Clock the state machine at 8 cycles per bit.
	denom := 8 * baud
	whole := machine.CPUFrequency() / denom
	frac := (machine.CPUFrequency() % denom * 256) / denom
	cfg.SetClkDivIntFrac(uint16(whole), uint8(frac))

	t.sm.Init(offset, cfg)

	// Pin direction and idle level (mark) must be set after Init.
	t.sm.SetPindirsConsecutive(pin, 1, true)
	t.sm.SetPinsConsecutive(pin, 1, true)

	t.sm.SetEnabled(true)
	return nil
}

func (t *pioTx) ready() bool {
	return !t.sm.IsTxFIFOFull()
}

func (t *pioTx) send(b byte) {
	t.sm.TxPut(uint32(b))
}

// pioTxDriver is a pl011Driver whose transmit path goes through the
// PIO state machine instead of the PL011 transmitter.
type pioTxDriver struct {
	*pl011Driver
	tx pioTx
}

func newPIOTxDriver(txPin machine.Pin) *pioTxDriver {
	d := &pioTxDriver{pl011Driver: uart0Driver}
	d.tx.pin = txPin
	return d
}

func (d *pioTxDriver) Configure(baud uint32) error {
	if err := d.pl011Driver.Configure(baud); err != nil {
		return err
	}
	return d.tx.init(d.tx.pin, baud)
}

func (d *pioTxDriver) TxReady() bool {
	return d.tx.ready()
}

func (d *pioTxDriver) SendByte(b byte) {
	d.tx.send(b)
}
