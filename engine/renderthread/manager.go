// Package renderthread runs renderers on dedicated OS threads and lets an
// owning thread control them: pause, resume, resize, surface changes, queued
// events and shutdown.
//
// Every render thread in the process shares one monitor. Its lock guards all
// thread state; slow graphics calls always run with the lock released.
package renderthread

import "sync"

// manager is the monitor shared by every render thread.
type manager struct {
	mu   sync.Mutex
	cond *sync.Cond
}

var mgr = newManager()

func newManager() *manager {
	m := &manager{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// threadExiting marks t exited and wakes every waiter.
func (m *manager) threadExiting(t *thread) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.exited = true
	t.drawing = false
	m.cond.Broadcast()
}
