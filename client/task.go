package client

// Task is the handle of a request running on its own goroutine.
// It resolves exactly once, to a value or to a *NetworkError.
//
// A Task cannot be cancelled through the handle. A request aborted through
// the context passed to the async call resolves to ErrCustom.
type Task[D any] struct {
	done chan struct{}
	val  D
	err  error
}

func startTask[D any](fn func() (D, error)) *Task[D] {
	t := &Task[D]{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		t.val, t.err = fn()
	}()

	return t
}

// Done returns a channel that is closed when the request resolves.
func (t *Task[D]) Done() <-chan struct{} { return t.done }

// Wait blocks until the request resolves and returns its outcome.
func (t *Task[D]) Wait() (D, error) {
	<-t.done
	return t.val, t.err
}

// Err blocks until the request resolves and returns its error.
func (t *Task[D]) Err() error {
	<-t.done
	return t.err
}
