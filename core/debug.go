package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// debugPrintln is the global debug print function. No-op by default;
// platform code can redirect it to stderr, a second UART, etc. It is
// only called from normal (non-interrupt) execution.
var debugPrintln DebugWriter = func(string) {}

// SetDebugWriter sets the platform-specific debug output function.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

func debugPrint(s string) {
	debugPrintln(s)
}

// Debug writes s through the registered debug writer. Hardware
// backends use it to surface conditions their interface contract
// cannot report, like a transmit handoff failing on a dead host port.
func Debug(s string) {
	debugPrintln(s)
}
