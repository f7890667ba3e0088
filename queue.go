package redis

// pendingReply is the minimal surface the queue needs from a reply handle
// in order to drain it. Every concrete handle type (*VoidReply, *BoolReply,
// *IntegerReply, *BulkReply, *MultiBulkReply, and the Transaction's own
// *queuedReply/*discardReply) implements it with its own seqNum/resolve.
//
// This is the Go realization of the intrusive queue described in spec.md
// §4.3/§9: rather than raw back-pointers (meaningless once the garbage
// collector can move or free a handle out from under a pointer), each
// handle carries its own sequence number assigned at enqueue time, and the
// queue is an ordered, append-only slice. Draining up to a target handle
// walks the slice from the front while the front entry's sequence number
// is smaller than the target's — exactly the "walk predecessors in O(k)"
// behavior §4.3 calls for, without pointer aliasing.
type pendingReply interface {
	seqNum() uint64
	// resolve materializes this handle's reply exactly once. Calling it
	// again after the handle has left Pending is a no-op that returns the
	// cached outcome. resolve itself does not touch the connection's
	// terminal state; the Connection latches framing-level errors
	// (IoError, ProtocolError) once they reach it, and never ServerError.
	resolve() error
}

// replyQueue is the FIFO of outstanding reply handles attached to a
// Connection. Membership lifetime equals a handle's Pending lifetime:
// resolving (or detaching) a handle removes it from the front of the
// queue. Because materialization always proceeds front-to-back and a
// handle can only be asked to resolve once it and everything before it
// has reached the front, capacity growth is the only allocation the queue
// ever performs — there is no per-handle bookkeeping beyond the sequence
// number the handle already carries.
type replyQueue struct {
	items []pendingReply
	next  uint64 // sequence number to assign to the next enqueued handle
}

func (q *replyQueue) enqueue(h pendingReply) {
	q.items = append(q.items, h)
}

func (q *replyQueue) nextSeq() uint64 {
	s := q.next
	q.next++
	return s
}

// drainThrough walks every handle preceding target (by sequence number)
// off the front of the queue, resolving each in turn, then resolves target
// itself. Predecessors are removed from the queue as they resolve whether
// or not they returned a recoverable ServerError; an unrecoverable error
// (IoError/ProtocolError) stops the walk and is returned immediately —
// the caller (Connection.materialize) then latches it as the connection's
// terminal error.
func (q *replyQueue) drainThrough(target pendingReply) error {
	targetSeq := target.seqNum()
	for len(q.items) > 0 && q.items[0].seqNum() < targetSeq {
		h := q.items[0]
		q.items = q.items[1:]
		if err := h.resolve(); err != nil && isTerminal(err) {
			return err
		}
	}
	if len(q.items) > 0 && q.items[0].seqNum() == targetSeq {
		q.items = q.items[1:]
	}
	return target.resolve()
}

// drainPredecessorsOf walks every handle strictly preceding seq off the
// front of the queue, resolving each, but does NOT touch the handle at
// seq itself (it may not even be at the front yet, or may want to stay
// Pending and read its own header lazily — see MultiBulkReply.Next).
func (q *replyQueue) drainPredecessorsOf(seq uint64) error {
	for len(q.items) > 0 && q.items[0].seqNum() < seq {
		h := q.items[0]
		q.items = q.items[1:]
		if err := h.resolve(); err != nil && isTerminal(err) {
			return err
		}
	}
	return nil
}

// removeSeq unlinks the handle with the given sequence number from the
// queue without resolving it. Used once a MultiBulkReply has been read to
// exhaustion (or its header read failed or was a null array) directly
// against the transport, so it no longer needs to sit in the queue as a
// potential predecessor.
func (q *replyQueue) removeSeq(seq uint64) {
	if len(q.items) > 0 && q.items[0].seqNum() == seq {
		q.items = q.items[1:]
	}
}

func (q *replyQueue) depth() int {
	return len(q.items)
}
