package bullq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompletion_Settle(t *testing.T) {
	boom := errors.New("boom")
	c := newCompletion()
	require.NoError(t, c.Err(), "pending completion has no error")

	go c.settle(func() error { return boom })
	require.ErrorIs(t, c.Wait(context.Background()), boom)
	<-c.Done()
	require.ErrorIs(t, c.Err(), boom)
}

func TestCompletion_WaitContext(t *testing.T) {
	c := newCompletion()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)

	c.settle(func() error { return nil })
	require.NoError(t, c.Wait(context.Background()))
}
