package defers

import "sync"

// Defers maintains an ordered lifo list of cleanup functions of a command.
type Defers interface {
	// Add adds a new function to the beginning of the list.
	Add(fn func())

	// CallAll invokes all deferred functions in reverse order of addition.
	// Every function is called at most once, no matter how often CallAll is invoked.
	CallAll()
}

type defaultDefers struct {
	// The mutex guards the list while it is modified or drained.
	sync.Mutex

	fs []func()
}

// NewDefers returns a new instance of Defers.
func NewDefers() Defers {
	return &defaultDefers{
		fs: []func(){},
	}
}

func (df *defaultDefers) Add(fn func()) {
	df.Lock()
	defer df.Unlock()
	df.fs = append([]func(){fn}, df.fs...)
}

func (df *defaultDefers) CallAll() {
	df.Lock()
	fs := df.fs
	df.fs = nil
	df.Unlock()

	for _, fn := range fs {
		fn()
	}
}
