//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"
)

// pl011Driver implements core.PortDriver on the RP2040 PL011. The
// FIFOs stay disabled (LCR_H.FEN=0) so the receive interrupt fires
// once per byte, matching the core's per-byte handler contract.
type pl011Driver struct {
	bus  *rp.UART0_Type
	irq  interrupt.Interrupt
	recv func(byte)
}

// The interrupt dispatch mechanism has no per-instance context, so the
// UART0 driver is a package-level singleton referenced by its ISR.
var uart0Driver = &pl011Driver{bus: rp.UART0}

func init() {
	uart0Driver.irq = interrupt.New(rp.IRQ_UART0_IRQ, handleUART0)
}

func (d *pl011Driver) Configure(baud uint32) error {
	// Assert and release the peripheral reset.
	rp.RESETS.RESET.SetBits(rp.RESETS_RESET_UART0)
	rp.RESETS.RESET.ClearBits(rp.RESETS_RESET_UART0)
	for !rp.RESETS.RESET_DONE.HasBits(rp.RESETS_RESET_UART0) {
	}

	// Mux the default TX/RX pins before touching baud/format.
	machine.UART_TX_PIN.Configure(machine.PinConfig{Mode: machine.PinUART})
	machine.UART_RX_PIN.Configure(machine.PinConfig{Mode: machine.PinUART})

	d.setBaudRate(baud)

	// 8N1, character mode (no FIFOs) for per-byte RX interrupts.
	d.bus.UARTLCR_H.Set(uint32(8-5) << rp.UART0_UARTLCR_H_WLEN_Pos)

	// Clear pending interrupts and sticky line errors, then enable.
	d.bus.UARTICR.Set(0x7FF)
	d.bus.UARTRSR.Set(0)
	d.bus.UARTCR.Set(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)
	return nil
}

// setBaudRate programs the integer and fractional divisors and does
// the LCR_H write the PL011 requires to latch them.
func (d *pl011Driver) setBaudRate(baud uint32) {
	div := 8 * machine.CPUFrequency() / baud

	ibrd := div >> 7
	var fbrd uint32
	switch {
	case ibrd == 0:
		ibrd = 1
	case ibrd >= 65535:
		ibrd = 65535
	default:
		fbrd = ((div & 0x7f) + 1) / 2
	}

	d.bus.UARTIBRD.Set(ibrd)
	d.bus.UARTFBRD.Set(fbrd)
	d.bus.UARTLCR_H.Set(d.bus.UARTLCR_H.Get())
}

// TxReady reports whether the transmit holding register is free.
func (d *pl011Driver) TxReady() bool {
	return !d.bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF)
}

func (d *pl011Driver) SendByte(b byte) {
	d.bus.UARTDR.Set(uint32(b))
}

// ArmReceive registers the per-byte entry point and unmasks the
// receive interrupt.
func (d *pl011Driver) ArmReceive(fn func(byte)) error {
	d.recv = fn
	d.irq.SetPriority(0x80)
	d.irq.Enable()
	d.bus.UARTIMSC.Set(rp.UART0_UARTIMSC_RXIM)
	return nil
}

// handleUART0 services the receive interrupt: drain DR until RXFE,
// dropping bytes with per-byte line errors (reading DR clears them).
func handleUART0(interrupt.Interrupt) {
	d := uart0Driver
	for !d.bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE) {
		r := d.bus.UARTDR.Get()
		if r&(rp.UART0_UARTDR_OE|rp.UART0_UARTDR_BE|rp.UART0_UARTDR_PE|rp.UART0_UARTDR_FE) != 0 {
			continue
		}
		if d.recv != nil {
			d.recv(byte(r))
		}
	}
	d.bus.UARTICR.Set(rp.UART0_UARTICR_RXIC)
	d.bus.UARTRSR.Set(0)
}
