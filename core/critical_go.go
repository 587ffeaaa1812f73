//go:build !tinygo

package core

import "sync"

// On regular Go there is no interrupt to mask: the receive handler runs
// on an ordinary goroutine (serial read loop, test harness), so the
// critical section is a mutex shared by the handler and the consumer.
type rxLock struct {
	mu sync.Mutex
}

type rxLockState struct{}

// exclude blocks the receive handler for the duration of a consumer
// critical section.
func (l *rxLock) exclude() rxLockState {
	l.mu.Lock()
	return rxLockState{}
}

func (l *rxLock) restore(rxLockState) {
	l.mu.Unlock()
}

// handlerEnter/handlerExit bracket the receive handler body. On host
// builds the handler must take the same mutex as the consumer.
func (l *rxLock) handlerEnter() {
	l.mu.Lock()
}

func (l *rxLock) handlerExit() {
	l.mu.Unlock()
}
