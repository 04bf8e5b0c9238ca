// Package stop implements a pattern for shutting down a group of processes
// and collecting the errors they produced.
package stop

import "sync"

// AlreadyStopped is a closed error channel to be used by Stopper
// implementations when an entity is stopped more than once.
var AlreadyStopped Result

// AlreadyStoppedFunc is a Func that returns AlreadyStopped.
var AlreadyStoppedFunc = func() Result { return AlreadyStopped }

func init() {
	closeMe := make(Channel)
	close(closeMe)
	AlreadyStopped = closeMe.Result()
}

// Stopper is an interface that allows a clean shutdown.
type Stopper interface {
	// Stop returns a Result which becomes resolved when the stopper finished
	// shutting down. Stop is expected not to block.
	Stop() Result
}

// Func is a function that can be used as a Stopper.
type Func func() Result

// Stop implements Stopper for Func.
func (f Func) Stop() Result {
	return f()
}

// Result is a channel of errors produced during a shutdown.
// The channel must be closed by the Stopper when shutdown finished.
type Result <-chan error

// Wait blocks until shutdown finished and returns all non-nil
// errors that occurred.
func (r Result) Wait() (errs []error) {
	for err := range r {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return
}

// Channel is the write side of a Result.
type Channel chan error

// Done resolves the Channel with the provided errors (nil-s are dropped)
// and closes it. Done must be called at most once.
func (ch Channel) Done(errs ...error) {
	for _, err := range errs {
		if err != nil {
			ch <- err
		}
	}
	close(ch)
}

// Result returns the read side of the Channel.
func (ch Channel) Result() Result {
	return Result((chan error)(ch))
}

// Group is a collection of Stoppers that can be stopped at once.
type Group struct {
	stoppables []Stopper
	mu         sync.Mutex
}

// NewGroup allocates a new Group.
func NewGroup() *Group {
	return &Group{}
}

// Add appends a Stopper to the Group.
func (g *Group) Add(s Stopper) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stoppables = append(g.stoppables, s)
}

// AddFunc appends a Func to the Group.
func (g *Group) AddFunc(f Func) {
	g.Add(f)
}

// Stop stops all members of the Group concurrently and resolves the
// returned Result when all of them finished.
func (g *Group) Stop() Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	whenDone := make(Channel)

	waitGroup := sync.WaitGroup{}
	waitGroup.Add(len(g.stoppables))
	results := make([]Result, len(g.stoppables))
	for i, s := range g.stoppables {
		results[i] = s.Stop()
	}
	for _, r := range results {
		go func(r Result) {
			defer waitGroup.Done()
			for err := range r {
				if err != nil {
					whenDone <- err
				}
			}
		}(r)
	}

	go func() {
		waitGroup.Wait()
		close(whenDone)
	}()

	return whenDone.Result()
}
