package redis

// txState is the transaction lifecycle of spec.md §3: a fresh Transaction
// starts Blank, becomes Dirty the moment MULTI is sent, and ends in
// exactly one of Committed or Aborted.
type txState uint8

const (
	txBlank txState = iota
	txDirty
	txCommitted
	txAborted
)

// Transaction wraps a MULTI/EXEC/DISCARD block on a Connection. Only one
// Transaction may be Dirty on a Connection at a time (Begin rejects a
// second one with ErrTransactionMisuse). Every command issued against the
// Connection while a Transaction is Dirty is queued server-side instead
// of executed immediately; its reply handle is not resolvable until the
// Transaction Commits or Aborts.
type Transaction struct {
	conn    *Connection
	state   txState
	qr      *queuedReply
	handles []pendingReply // per-call handles issued while Dirty, in queue order
}

// queuedReply occupies the single Connection-queue slot for an entire
// MULTI...EXEC/DISCARD sequence. Its resolve reads MULTI's own +OK, one
// +QUEUED status per queued command, and finally the EXEC array,
// distributing the EXEC array's elements into the per-call handles the
// Transaction collected along the way. Abort reads the DISCARD form of the
// same slot through discardReply instead.
type queuedReply struct {
	txn   *Transaction
	seq   uint64
	state handleState
	err   error
}

func (q *queuedReply) seqNum() uint64 { return q.seq }

func (q *queuedReply) resolve() error {
	if q.state != statePending {
		return q.err
	}
	t := q.txn
	c := t.conn
	f := c.framer

	if _, err := f.readStatus(c.transport.r); err != nil {
		q.state, q.err = stateResolved, err
		t.finishAll(err)
		return err
	}

	for range t.handles {
		if _, err := f.readStatus(c.transport.r); err != nil {
			if _, ok := err.(ServerError); !ok {
				q.state, q.err = stateResolved, err
				t.finishAll(err)
				return err
			}
			// A per-command queue-time error (bad arity, wrong type) does
			// not desynchronize the stream; EXEC still answers, typically
			// with EXECABORT. Nothing more to do here but keep reading.
		}
	}

	v, err := f.readAny(c.transport.r)
	if err != nil {
		q.state, q.err = stateResolved, err
		t.finishAll(err)
		return err
	}

	switch v.kind {
	case '*':
		if v.arrayNull {
			// WATCH invalidation or a queuing error aborted the whole
			// transaction server-side; the handles never received a value.
			abortErr := ServerError("EXECABORT Transaction discarded because of previous errors")
			q.state, q.err = stateResolved, nil
			t.finishAll(abortErr)
			return nil
		}
		if len(v.array) != len(t.handles) {
			err := newProtocolError("EXEC array length does not match queued command count")
			q.state, q.err = stateResolved, err
			t.finishAll(err)
			return err
		}
		for i, h := range t.handles {
			_ = h.(interface{ assignFromValue(respValue) error }).assignFromValue(v.array[i])
		}
		q.state, q.err = stateResolved, nil
		return nil
	case '-':
		err := ServerError(v.status)
		q.state, q.err = stateResolved, err
		t.finishAll(err)
		return err
	default:
		err := newProtocolError("expected EXEC array reply")
		q.state, q.err = stateResolved, err
		t.finishAll(err)
		return err
	}
}

func (t *Transaction) finishAll(err error) {
	for _, h := range t.handles {
		if ar, ok := h.(interface{ baseRef() *baseReply }); ok {
			ar.baseRef().finish(err)
		}
	}
}

// track records a per-call handle created while this Transaction is
// Dirty. Called by Connection.track instead of enqueuing the handle on
// the connection's own replyQueue: the entire block shares the one
// queuedReply slot.
func (t *Transaction) track(h pendingReply) {
	t.handles = append(t.handles, h)
}

// Begin opens a new Transaction on c by sending MULTI. It fails with
// ErrTransactionMisuse if c already has a Dirty transaction attached.
func Begin(c *Connection) (*Transaction, error) {
	if c.txn != nil && c.txn.state == txDirty {
		return nil, ErrTransactionMisuse
	}
	if err := c.framer.encodeRequest(c.transport.w, "MULTI"); err != nil {
		return nil, err
	}

	t := &Transaction{conn: c, state: txDirty}
	t.qr = &queuedReply{txn: t, seq: c.queue.nextSeq()}
	c.queue.enqueue(t.qr)
	c.metrics.commandIssued()
	c.metrics.setQueueDepth(c.queue.depth())
	c.txn = t
	return t, nil
}

// Commit sends EXEC and resolves the transaction: every per-call handle
// queued since Begin receives its real value, drawn from the EXEC array
// in order.
func (t *Transaction) Commit() error {
	if t.state != txDirty {
		return ErrTransactionMisuse
	}
	c := t.conn
	if err := c.framer.encodeRequest(c.transport.w, "EXEC"); err != nil {
		return err
	}
	t.state = txCommitted
	c.txn = nil
	err := c.materialize(t.qr)
	if err == nil {
		c.metrics.transactionCommitted()
	}
	return err
}

// Abort sends DISCARD and positively detaches every per-call handle
// queued since Begin: each is marked Detached with ErrTransactionAborted,
// since the server never produces a value for them beyond the shared
// +QUEUED acknowledgement (§9's resolution of the source's own
// abort-path TODO).
func (t *Transaction) Abort() error {
	if t.state != txDirty {
		return ErrTransactionMisuse
	}
	c := t.conn
	if err := c.framer.encodeRequest(c.transport.w, "DISCARD"); err != nil {
		return err
	}
	t.state = txAborted
	c.txn = nil

	// queuedReply.resolve would try to read an EXEC array that a DISCARD
	// never sends; instead it reads MULTI's +OK, one +QUEUED per queued
	// command, and DISCARD's own +OK, then every per-call handle is
	// detached without ever touching the wire again.
	// Per-call handles issued since Begin were never enqueued on the
	// connection's own replyQueue (they share the queuedReply's single
	// wire slot, see Connection.track) — detaching them here just means
	// marking each Detached with ErrTransactionAborted; there is nothing
	// left to unlink from the queue on their behalf.
	err := c.materialize(&discardReply{qr: t.qr})
	for _, h := range t.handles {
		if ar, ok := h.(interface{ baseRef() *baseReply }); ok {
			ar.baseRef().markDetached(ErrTransactionAborted)
		}
		c.metrics.handleDetached()
	}
	c.metrics.transactionAborted()
	return err
}

// discardReply adapts queuedReply's queue slot to DISCARD's reply shape
// (MULTI +OK, N x +QUEUED, DISCARD +OK) instead of EXEC's array.
type discardReply struct {
	qr *queuedReply
}

func (d *discardReply) seqNum() uint64 { return d.qr.seq }

func (d *discardReply) resolve() error {
	if d.qr.state != statePending {
		return d.qr.err
	}
	t := d.qr.txn
	c := t.conn
	f := c.framer

	if _, err := f.readStatus(c.transport.r); err != nil {
		d.qr.state, d.qr.err = stateResolved, err
		return err
	}
	for range t.handles {
		if _, err := f.readStatus(c.transport.r); err != nil {
			if _, ok := err.(ServerError); !ok {
				d.qr.state, d.qr.err = stateResolved, err
				return err
			}
		}
	}
	if _, err := f.readStatus(c.transport.r); err != nil {
		d.qr.state, d.qr.err = stateResolved, err
		return err
	}
	d.qr.state, d.qr.err = stateResolved, nil
	return nil
}
