package core

import "time"

// TickFrequency is the tick rate of the blink/status timer in Hz.
const TickFrequency = 1000

// TicksFromMS converts milliseconds to timer ticks
func TicksFromMS(ms uint32) uint32 {
	return ms * TickFrequency / 1000
}

// TicksToMS converts timer ticks to milliseconds
func TicksToMS(ticks uint32) uint32 {
	return ticks * 1000 / TickFrequency
}

// SleepTicks blocks the calling context for the given number of ticks.
// The receive interrupt keeps running while we sleep.
func SleepTicks(ticks uint32) {
	time.Sleep(time.Duration(ticks) * time.Second / TickFrequency)
}
