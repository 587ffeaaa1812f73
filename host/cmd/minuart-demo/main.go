// minuart-demo drives the UART core against a real serial device (or
// an in-memory loopback), reproducing the original firmware's
// behavior: a hello message at startup, then a counter line once per
// blink period while echoing anything received.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"minuart/core"
	"minuart/host/serial"
	"minuart/host/uartport"
)

var (
	device   = flag.String("device", "loopback", "serial device path, or 'loopback'")
	baud     = flag.Int("baud", core.DefaultBaudRate, "baud rate")
	capacity = flag.Int("capacity", core.DefaultRxCapacity, "receive buffer capacity in bytes")
	verbose  = flag.Bool("verbose", false, "enable driver debug output")
)

const (
	ledOnPercent  = 50
	blinkOnTicks  = core.TickFrequency * ledOnPercent / 100
	blinkOffTicks = core.TickFrequency - blinkOnTicks
)

func main() {
	flag.Parse()

	if *verbose {
		core.SetDebugWriter(func(s string) {
			fmt.Fprintln(os.Stderr, s)
		})
	}

	var driver *uartport.Driver
	if *device == "loopback" {
		driver = uartport.NewWithPort(serial.NewLoopback())
	} else {
		driver = uartport.New(serial.DefaultConfig(*device))
	}
	defer driver.Close()

	uart := core.NewWithCapacity(driver, *capacity)
	if err := uart.Init(uint32(*baud)); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	if err := uart.WriteLine("Hello, World!"); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	var count uint16
	buf := make([]byte, *capacity)
	for {
		// The original firmware blinks an LED here; on the host the
		// tick sleeps just pace the counter output.
		core.SleepTicks(blinkOnTicks)
		core.SleepTicks(blinkOffTicks)

		if err := uart.WriteLine(strconv.Itoa(int(count))); err != nil {
			fmt.Fprintf(os.Stderr, "write: %v\n", err)
			os.Exit(1)
		}
		count++

		n, err := uart.Read(buf)
		if err != nil {
			// Overflow: the buffer was reset, report and carry on.
			fmt.Fprintf(os.Stderr, "rx error: %v\n", err)
			continue
		}
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
	}
}
