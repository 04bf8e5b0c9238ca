package stop

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAlreadyStopped(t *testing.T) {
	require.Empty(t, AlreadyStopped.Wait())
	require.Empty(t, AlreadyStoppedFunc().Wait())
}

func TestChannel(t *testing.T) {
	c := make(Channel)
	go c.Done(errors.New("first"), nil, errors.New("second"))
	errs := c.Result().Wait()
	require.Len(t, errs, 2)
}

func TestGroup(t *testing.T) {
	g := NewGroup()
	g.AddFunc(func() Result {
		c := make(Channel)
		go c.Done()
		return c.Result()
	})
	g.AddFunc(func() Result {
		c := make(Channel)
		go func() {
			time.Sleep(10 * time.Millisecond)
			c.Done(errors.New("slow failure"))
		}()
		return c.Result()
	})
	g.AddFunc(AlreadyStoppedFunc)

	errs := g.Stop().Wait()
	require.Len(t, errs, 1)
	require.EqualError(t, errs[0], "slow failure")
}
