// Package envlock serializes every read and write of the process environment.
//
// The environment table is process-wide state with no synchronization of its
// own on some targets, and C code linked into the process can mutate it
// behind the Go runtime's back. Every access in this module goes through a
// Lock; callers that spawn children hold it while the child's inherited
// environment is assembled and the OS process is created.
package envlock

import "sync"

// Lock is a lazily constructed mutex. The zero value is ready to use.
type Lock struct {
	once      sync.Once
	mu        sync.Locker
	construct func() sync.Locker
}

// Default is the process-wide environment lock.
var Default = New()

// New returns a Lock backed by a sync.Mutex.
func New() *Lock {
	return newLock(nil)
}

func newLock(construct func() sync.Locker) *Lock {
	return &Lock{construct: construct}
}

// Init constructs the underlying mutex exactly once. It is idempotent and safe
// to call from any number of goroutines; when it returns the mutex is fully
// constructed for every caller.
func (l *Lock) Init() {
	l.once.Do(func() {
		if l.construct == nil {
			l.mu = new(sync.Mutex)
			return
		}
		l.mu = l.construct()
	})
}

// Acquire locks the environment.
func (l *Lock) Acquire() {
	l.Init()
	l.mu.Lock()
}

// Release unlocks the environment. It must follow a matching Acquire.
func (l *Lock) Release() {
	l.mu.Unlock()
}

// Do runs fn while holding the lock.
func (l *Lock) Do(fn func()) {
	l.Acquire()
	defer l.Release()
	fn()
}

// Init initializes the default lock.
func Init() { Default.Init() }

// Do runs fn while holding the default lock.
func Do(fn func()) { Default.Do(fn) }
