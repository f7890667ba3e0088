package redis

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/xenking/respipe/internal/rlog"
)

// Options configures Dial. The zero value dials over TCP with no
// authentication, no TCP_NODELAY, and the package's default write-buffer
// size — mirroring the teacher's NewClient(addr, commandTimeout,
// connectTimeout) shape, extended with the ambient concerns this
// expansion adds (SPEC_FULL.md §10).
type Options struct {
	// ConnectTimeout bounds the initial dial. Zero means no timeout.
	ConnectTimeout time.Duration

	// Password, if non-empty, is sent as AUTH immediately after connecting,
	// synchronously, before Dial returns.
	Password string

	// NoDelay sets TCP_NODELAY on a TCP transport. Ignored for UNIX sockets.
	NoDelay bool

	// WriteBufferSize overrides the transport's buffered-writer size.
	// Zero uses defaultWriteBufferSize.
	WriteBufferSize int

	// Logger receives Debug/Warn events. Nil uses the package-default
	// logger from internal/rlog.
	Logger logrus.FieldLogger

	// Metrics, if non-nil, is updated as commands are issued and replies
	// drained. Nil disables collection.
	Metrics *Metrics
}

// Connection is a single, synchronous, pipelining link to a Redis server.
// It is not safe for concurrent use by multiple goroutines (§5): every
// method assumes it runs to completion before the next is called.
type Connection struct {
	id     string
	addr   string
	transport *transport
	framer framer
	queue  replyQueue
	txn    *Transaction
	broken error
	log    logrus.FieldLogger
	metrics *Metrics
}

// Dial connects to addr (host:port, or a UNIX socket path starting with
// '/') and returns a ready Connection. If opts.Password is set, AUTH is
// sent and its reply read before Dial returns.
func Dial(addr string, opts Options) (*Connection, error) {
	norm := normalizeAddr(addr)

	tr, err := dialTransport(norm, opts.ConnectTimeout, opts.NoDelay, opts.WriteBufferSize)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = rlog.Get()
	}

	c := &Connection{
		id:        uuid.NewString()[:8],
		addr:      norm,
		transport: tr,
		log:       log,
		metrics:   opts.Metrics,
	}
	c.log.WithFields(logrus.Fields{"conn": c.id, "addr": norm}).Debug("redis: connected")

	if opts.Password != "" {
		if err := c.sendVoid("AUTH", []byte(opts.Password)).Result(); err != nil {
			_ = c.transport.close()
			return nil, err
		}
	}

	return c, nil
}

// ID returns the short correlation id stamped on this connection, used
// only in log fields.
func (c *Connection) ID() string { return c.id }

// track assigns the next sequence number to h, attaches it to the active
// Dirty transaction (if any, for the TransactionMisuse guard), enqueues
// it, and bumps bookkeeping. Every reply-handle constructor calls this
// exactly once.
func (c *Connection) track(h pendingReply) {
	type seqAssignable interface {
		baseRef() *baseReply
	}
	sa, ok := h.(seqAssignable)

	if c.txn != nil && c.txn.state == txDirty {
		if ok {
			sa.baseRef().txn = c.txn
		}
		c.txn.track(h)
		c.metrics.commandIssued()
		return
	}

	if ok {
		sa.baseRef().seq = c.queue.nextSeq()
	}
	c.queue.enqueue(h)
	c.metrics.commandIssued()
	c.metrics.setQueueDepth(c.queue.depth())
}

// latch records err as the connection's terminal error if it is not
// already broken. Only IoError/ProtocolError ever reach here.
func (c *Connection) latch(err error) {
	if c.broken == nil && err != nil {
		c.broken = err
		c.log.WithFields(logrus.Fields{"conn": c.id, "err": err}).Warn("redis: connection broken")
	}
}

// guardTransaction returns ErrTransactionMisuse if target was created
// inside a Dirty transaction that has not yet been resolved by Commit or
// Abort — those handles may only be read after the transaction itself
// resolves them.
func (c *Connection) guardTransaction(target pendingReply) error {
	type seqAssignable interface {
		baseRef() *baseReply
	}
	sa, ok := target.(seqAssignable)
	if !ok {
		return nil
	}
	b := sa.baseRef()
	if b.txn != nil && b.txn.state == txDirty {
		return ErrTransactionMisuse
	}
	return nil
}

// materialize is the single entry point every reply handle's Result-style
// accessor calls when it finds itself still Pending: check for an
// already-broken connection, check the transaction guard, flush any
// buffered writes, then drain the queue up through target.
func (c *Connection) materialize(target pendingReply) error {
	if c.broken != nil {
		return c.broken
	}
	if err := c.guardTransaction(target); err != nil {
		return err
	}
	if err := c.transport.flush(); err != nil {
		c.latch(err)
		return err
	}
	err := c.queue.drainThrough(target)
	c.metrics.replyDrained()
	c.metrics.setQueueDepth(c.queue.depth())
	if err != nil && isTerminal(err) {
		c.latch(err)
	}
	return err
}

// materializeMultiBulkHeader is MultiBulkReply's lazy entry point: it
// drains only strict predecessors (not target itself), reads target's
// own array header, and leaves the remaining elements to be read one at a
// time directly off the transport by subsequent Next calls (§4.4's
// "lazy drain-in-place" subtlety).
func (c *Connection) materializeMultiBulkHeader(r *MultiBulkReply) error {
	if c.broken != nil {
		return c.broken
	}
	if err := c.guardTransaction(r); err != nil {
		return err
	}
	if err := c.transport.flush(); err != nil {
		c.latch(err)
		return err
	}
	if err := c.queue.drainPredecessorsOf(r.seqNum()); err != nil {
		c.latch(err)
		return err
	}

	count, ok, err := c.framer.readMultiBulkHeader(c.transport.r)
	if err != nil {
		if isTerminal(err) {
			c.latch(err)
		}
		c.queue.removeSeq(r.seqNum())
		r.base.finish(err)
		return err
	}
	r.headerRead = true
	if !ok {
		r.isNull = true
		r.remaining = 0
		r.base.finish(nil)
		c.queue.removeSeq(r.seqNum())
	} else {
		r.remaining = count
	}
	c.metrics.setQueueDepth(c.queue.depth())
	return nil
}

// retarget replaces the queue's reference to the handle at seq (if it is
// still Pending and queued) with newHandle, used by TakeFrom to keep the
// FIFO pointing at the surviving handle after ownership moves.
func (c *Connection) retarget(seq uint64, newHandle pendingReply) {
	for i, h := range c.queue.items {
		if h.seqNum() == seq {
			c.queue.items[i] = newHandle
			return
		}
	}
}

// Close drains every outstanding reply handle (so no goroutine is left
// holding a half-read stream) and closes the transport. Handle-drain
// errors and the transport-close error are aggregated with
// hashicorp/go-multierror, mirroring packetd's decoder-shutdown
// aggregation.
func (c *Connection) Close() error {
	var result *multierror.Error

	if c.txn != nil && c.txn.state == txDirty {
		_ = c.txn.Abort()
	}

	if c.broken == nil && c.queue.depth() > 0 {
		if err := c.transport.flush(); err != nil {
			result = multierror.Append(result, err)
			c.latch(err)
		}
	}
	for c.broken == nil && c.queue.depth() > 0 {
		h := c.queue.items[0]
		c.queue.items = c.queue.items[1:]
		if err := h.resolve(); err != nil {
			result = multierror.Append(result, err)
			if isTerminal(err) {
				c.latch(err)
				break
			}
		}
	}
	c.metrics.setQueueDepth(0)

	if err := c.transport.close(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.broken == nil {
		c.broken = ErrClosed
	}

	return result.ErrorOrNil()
}

// The send* helpers implement §4.5's per-method recipe: encode the
// request and write it to the transport buffer first, then construct and
// track the typed reply handle. If encoding fails, the returned handle is
// already Resolved with that error and was never tracked — nothing was
// written, so there is no reply to account for.

func (c *Connection) sendVoid(cmd string, args ...[]byte) *VoidReply {
	if err := c.framer.encodeRequest(c.transport.w, cmd, args...); err != nil {
		r := &VoidReply{}
		r.base.conn = c
		r.base.finish(err)
		return r
	}
	return newVoidReply(c)
}

func (c *Connection) sendBool(cmd string, args ...[]byte) *BoolReply {
	if err := c.framer.encodeRequest(c.transport.w, cmd, args...); err != nil {
		r := &BoolReply{}
		r.base.conn = c
		r.base.finish(err)
		return r
	}
	return newBoolReply(c)
}

func (c *Connection) sendInteger(cmd string, args ...[]byte) *IntegerReply {
	if err := c.framer.encodeRequest(c.transport.w, cmd, args...); err != nil {
		r := &IntegerReply{}
		r.base.conn = c
		r.base.finish(err)
		return r
	}
	return newIntegerReply(c)
}

func (c *Connection) sendBulk(cmd string, args ...[]byte) *BulkReply {
	if err := c.framer.encodeRequest(c.transport.w, cmd, args...); err != nil {
		r := &BulkReply{}
		r.base.conn = c
		r.base.finish(err)
		return r
	}
	return newBulkReply(c)
}

func (c *Connection) sendMultiBulk(cmd string, args ...[]byte) *MultiBulkReply {
	if err := c.framer.encodeRequest(c.transport.w, cmd, args...); err != nil {
		r := &MultiBulkReply{}
		r.base.conn = c
		r.base.finish(err)
		return r
	}
	return newMultiBulkReply(c)
}
