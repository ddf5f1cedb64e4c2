package bullq

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync/atomic"

	"github.com/bullq/bullq-go/internal/events"
	ikeys "github.com/bullq/bullq-go/internal/keys"
	"github.com/redis/go-redis/v9"
)

// Event names a notification emitted by a QueueBase.
type Event = events.Kind

// EventError carries transport errors relayed from the connection. The payload is the error.
const EventError Event = events.KindError

// Listener receives the payload of an emitted event.
type Listener = events.Handler

// QueueBase is the identity shared by every queue-like type: it derives the
// store keys of a named queue and owns the single connection used to reach them.
type QueueBase struct {
	name    string
	prefix  string
	ns      ikeys.Namespace
	keys    map[Resource]string
	conn    Connection
	bus     *events.Bus
	log     Logger
	encoder Encoder

	closing atomic.Pointer[Completion]
}

// NewQueueBase creates the identity for queue name and starts connecting to
// the store. Names must be non-empty and must not contain ":", otherwise
// FromKey could not tell the name and label apart.
func NewQueueBase(name string, opts ...Option) (*QueueBase, error) {
	if name == "" || strings.Contains(name, ikeys.Sep) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidQueueName, name)
	}
	cfg := resolveConfig(opts...)
	ns := ikeys.Namespace{Prefix: cfg.prefix, Name: name}

	table := ns.Table(resourceLabels()...)
	keys := make(map[Resource]string, len(table))
	for l, k := range table {
		keys[Resource(l)] = k
	}

	q := &QueueBase{
		name:    name,
		prefix:  cfg.prefix,
		ns:      ns,
		keys:    keys,
		bus:     events.New(),
		log:     cfg.logger,
		encoder: cfg.encoder,
	}
	q.conn = cfg.newConn(cfg, ns.ClientName())
	q.conn.OnError(func(err error) { q.bus.Emit(EventError, err) })
	q.conn.Connect()
	return q, nil
}

// Name returns the queue name.
func (q *QueueBase) Name() string { return q.name }

// Prefix returns the root namespace segment.
func (q *QueueBase) Prefix() string { return q.prefix }

// ToKey returns "<prefix>:<name>:<t>". t need not be one of AllResources.
func (q *QueueBase) ToKey(t string) string { return q.ns.Key(t) }

// FromKey returns the label of a key produced by ToKey, e.g. "job1" for
// "bull:orders:job1". key must belong to this queue; foreign keys give
// meaningless results.
func (q *QueueBase) FromKey(key string) string { return q.ns.Label(key) }

// ByNameKey returns the key of the per-job-name index for jobName.
func (q *QueueBase) ByNameKey(jobName string) string {
	return q.ns.ByName(string(ResourceByName), jobName)
}

// Key returns the precomputed key of r, deriving it for resources outside AllResources.
func (q *QueueBase) Key(r Resource) string {
	if k, ok := q.keys[r]; ok {
		return k
	}
	return q.ns.Key(string(r))
}

// Keys returns a copy of the precomputed key table.
func (q *QueueBase) Keys() map[Resource]string { return maps.Clone(q.keys) }

// Base64Name returns the queue name in standard base64.
func (q *QueueBase) Base64Name() string { return q.ns.Base64Name() }

// ClientName returns the name this queue's connection registers with the
// server, "<prefix>:<base64(name)>".
func (q *QueueBase) ClientName() string { return q.ns.ClientName() }

// Client returns the store client owned by this queue.
func (q *QueueBase) Client() redis.UniversalClient { return q.conn.Client() }

// WaitUntilReady waits for the initial connection and returns the client.
func (q *QueueBase) WaitUntilReady(ctx context.Context) (redis.UniversalClient, error) {
	if err := q.conn.WaitUntilReady(ctx); err != nil {
		return nil, err
	}
	return q.conn.Client(), nil
}

// On registers l for event and returns a function removing it.
func (q *QueueBase) On(event Event, l Listener) (off func()) { return q.bus.On(event, l) }

// OnError registers fn for relayed transport errors.
func (q *QueueBase) OnError(fn func(error)) (off func()) {
	return q.bus.On(EventError, func(p any) {
		if err, ok := p.(error); ok {
			fn(err)
		}
	})
}

// ListenerCount reports how many listeners are registered for event.
func (q *QueueBase) ListenerCount(event Event) int { return q.bus.Listeners(event) }

// Emit notifies the listeners of event and returns how many were called.
func (q *QueueBase) Emit(event Event, payload any) int { return q.bus.Emit(event, payload) }

// Close gracefully closes the connection. Only the first call starts the
// close; every call, concurrent or later, waits for that same outcome.
// Cancelling ctx stops waiting but not the close.
func (q *QueueBase) Close(ctx context.Context) error {
	return q.startClose(ctx).Wait(ctx)
}

// Closing returns the pending close, or nil if Close was never called.
func (q *QueueBase) Closing() *Completion { return q.closing.Load() }

func (q *QueueBase) startClose(ctx context.Context) *Completion {
	if c := q.closing.Load(); c != nil {
		return c
	}
	c := newCompletion()
	if !q.closing.CompareAndSwap(nil, c) {
		return q.closing.Load()
	}
	q.log.Debugf("closing queue: prefix=%s name=%s", q.prefix, q.name)
	detached := context.WithoutCancel(ctx)
	go c.settle(func() error { return q.conn.Close(detached) })
	return c
}

// Disconnect drops the connection immediately, independent of Close.
func (q *QueueBase) Disconnect() error {
	q.log.Debugf("disconnecting queue: prefix=%s name=%s", q.prefix, q.name)
	return q.conn.Disconnect()
}
