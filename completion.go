package bullq

import "context"

// Completion is the pending result of an asynchronous operation. It settles
// exactly once; every observer sees the same outcome.
type Completion struct {
	done chan struct{}
	err  error
}

func newCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

func (c *Completion) settle(fn func() error) {
	c.err = fn()
	close(c.done)
}

// Done is closed once the operation has settled.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Err returns the outcome of a settled operation, or nil while still pending.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

// Wait blocks until the operation settles or ctx is done. Giving up on ctx
// does not cancel the operation itself.
func (c *Completion) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
