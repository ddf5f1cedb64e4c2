package bullq

import (
	"context"
	"errors"
	"sync"

	"github.com/bullq/bullq-go/internal/events"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Connection is the handle to the backing store owned by a QueueBase.
type Connection interface {
	// Client returns the store client. It is the same value for the lifetime of the handle.
	Client() redis.UniversalClient
	// OnError registers fn for transport errors and returns a function removing it.
	OnError(fn func(error)) (off func())
	// Connect starts establishing the connection in the background. Repeated calls are no-ops.
	Connect()
	// WaitUntilReady blocks until the initial connection attempt settles.
	WaitUntilReady(ctx context.Context) error
	// Close stops admitting commands, waits for in-flight ones and releases the transport.
	Close(ctx context.Context) error
	// Disconnect releases the transport immediately.
	Disconnect() error
}

// RedisConnection is the go-redis backed Connection.
type RedisConnection struct {
	id     string
	client redis.UniversalClient
	bus    *events.Bus
	log    Logger

	connectOnce sync.Once
	ready       chan struct{}
	readyErr    error
	ctx         context.Context
	cancel      context.CancelFunc

	mu       sync.Mutex
	inflight int
	draining bool
	drained  chan struct{}
}

// NewRedisConnection builds a client from a copy of opts. A non-empty
// clientName replaces opts.ClientName. The handle is usable immediately;
// call Connect to start dialing ahead of the first command.
func NewRedisConnection(opts *redis.UniversalOptions, clientName string, log Logger) *RedisConnection {
	var o redis.UniversalOptions
	if opts != nil {
		o = *opts
	}
	if len(o.Addrs) == 0 {
		o.Addrs = []string{DefaultAddr}
	}
	if clientName != "" {
		o.ClientName = clientName
	}
	if log == nil {
		log = nopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &RedisConnection{
		id:      uuid.NewString(),
		client:  redis.NewUniversalClient(&o),
		bus:     events.New(),
		log:     log,
		ready:   make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
		drained: make(chan struct{}),
	}
	c.client.AddHook(errorHook{c: c})
	return c
}

// ID is a random per-handle identifier used to correlate log lines.
func (c *RedisConnection) ID() string { return c.id }

func (c *RedisConnection) Client() redis.UniversalClient { return c.client }

func (c *RedisConnection) OnError(fn func(error)) (off func()) {
	return c.bus.On(events.KindError, func(p any) {
		if err, ok := p.(error); ok {
			fn(err)
		}
	})
}

func (c *RedisConnection) Connect() {
	c.connectOnce.Do(func() {
		go func() {
			defer close(c.ready)
			c.readyErr = c.client.Ping(c.ctx).Err()
			if c.readyErr == nil {
				c.log.Debugf("connected: conn=%s", c.id)
			}
		}()
	})
}

func (c *RedisConnection) WaitUntilReady(ctx context.Context) error {
	c.Connect()
	select {
	case <-c.ready:
		return c.readyErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *RedisConnection) Close(ctx context.Context) error {
	c.cancel()
	c.stopAdmitting()
	select {
	case <-c.drained:
	case <-ctx.Done():
		return ctx.Err()
	}
	c.log.Debugf("closing: conn=%s", c.id)
	return c.release()
}

func (c *RedisConnection) Disconnect() error {
	c.cancel()
	c.stopAdmitting()
	c.log.Debugf("disconnecting: conn=%s", c.id)
	return c.release()
}

// release closes the client pool; a pool already closed by an earlier
// teardown counts as success.
func (c *RedisConnection) release() error {
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func (c *RedisConnection) stopAdmitting() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draining {
		return
	}
	c.draining = true
	if c.inflight == 0 {
		close(c.drained)
	}
}

func (c *RedisConnection) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draining {
		return ErrConnectionClosing
	}
	c.inflight++
	return nil
}

func (c *RedisConnection) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	if c.draining && c.inflight == 0 {
		close(c.drained)
	}
}

func (c *RedisConnection) report(err error) {
	if !isTransportError(err) {
		return
	}
	c.log.Warnf("transport error: conn=%s err=%v", c.id, err)
	c.bus.Emit(events.KindError, err)
}

// isTransportError reports whether err came from the link to the server
// rather than from a server reply, a miss, cancellation or our own teardown.
func isTransportError(err error) bool {
	if err == nil ||
		errors.Is(err, redis.Nil) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, ErrConnectionClosing) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var rerr redis.Error
	return !errors.As(err, &rerr)
}

// errorHook tracks in-flight commands and relays transport failures.
type errorHook struct{ c *RedisConnection }

func (h errorHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h errorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if err := h.c.begin(); err != nil {
			cmd.SetErr(err)
			return err
		}
		err := next(ctx, cmd)
		// listeners may Close, which waits for the in-flight count to drain
		h.c.end()
		h.c.report(err)
		return err
	}
}

func (h errorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if err := h.c.begin(); err != nil {
			for _, cmd := range cmds {
				cmd.SetErr(err)
			}
			return err
		}
		err := next(ctx, cmds)
		h.c.end()
		h.c.report(err)
		return err
	}
}
