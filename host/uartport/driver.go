// Package uartport implements core.PortDriver on top of an OS serial
// port. A reader goroutine plays the role of the receive interrupt:
// it delivers incoming bytes one at a time to the handler armed by the
// core, which provides its own exclusion against the consumer.
package uartport

import (
	"fmt"

	"minuart/core"
	"minuart/host/serial"
)

// Driver is a host-side UART hardware backend.
//
// TxReady always reports true: the OS write path buffers, so the
// core's transmit spin never actually spins here. Any blocking happens
// inside the port's Write, bounded by the port's own semantics; that
// is this backend's explicit timeout policy for the otherwise
// unbounded hardware-ready wait.
type Driver struct {
	cfg  *serial.Config
	port serial.Port

	recv func(byte)
	stop chan struct{}
	done chan struct{}
}

var _ core.PortDriver = (*Driver)(nil)

// New returns a driver that opens cfg.Device during Configure.
func New(cfg *serial.Config) *Driver {
	return &Driver{cfg: cfg}
}

// NewWithPort returns a driver over an already-open port (loopback,
// tests). Configure keeps the port's existing line settings.
func NewWithPort(port serial.Port) *Driver {
	return &Driver{port: port}
}

// Configure opens the serial device at the requested baud rate. This
// is the host-side counterpart of the firmware's clock/pin setup.
func (d *Driver) Configure(baud uint32) error {
	if d.port != nil {
		return nil
	}
	if d.cfg == nil {
		return fmt.Errorf("uartport: no config and no pre-opened port")
	}
	cfg := *d.cfg
	cfg.Baud = int(baud)
	port, err := serial.Open(&cfg)
	if err != nil {
		return fmt.Errorf("uartport: %w", err)
	}
	d.port = port
	return nil
}

// TxReady reports whether a byte can be handed off. See the type
// comment for why this is unconditionally true.
func (d *Driver) TxReady() bool {
	return true
}

// SendByte writes one byte to the port. The hardware contract has no
// error path, so a failed write is surfaced through the debug hook
// rather than lost silently.
func (d *Driver) SendByte(b byte) {
	buf := [1]byte{b}
	if _, err := d.port.Write(buf[:]); err != nil {
		core.Debug("uartport: write failed: " + err.Error())
	}
}

// ArmReceive starts the reader goroutine and registers the per-byte
// handler.
func (d *Driver) ArmReceive(fn func(byte)) error {
	if d.port == nil {
		return fmt.Errorf("uartport: not configured")
	}
	if d.recv != nil {
		return fmt.Errorf("uartport: receive already armed")
	}
	d.recv = fn
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.readLoop()
	return nil
}

func (d *Driver) readLoop() {
	defer close(d.done)
	buf := make([]byte, 64)
	for {
		n, err := d.port.Read(buf)
		for _, b := range buf[:n] {
			d.recv(b)
		}
		if err != nil {
			// A timed-out read reports (0, nil); io.EOF or any other
			// error means the port is gone.
			return
		}
		select {
		case <-d.stop:
			return
		default:
		}
	}
}

// Close shuts down the reader goroutine and closes the port.
func (d *Driver) Close() error {
	if d.stop != nil {
		close(d.stop)
	}
	var err error
	if d.port != nil {
		err = d.port.Close()
	}
	if d.done != nil {
		<-d.done
	}
	return err
}
