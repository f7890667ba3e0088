package redis

import "runtime"

// handleState is the three-state lifecycle every reply handle moves
// through (spec.md §3): Pending while the reply is outstanding, Resolved
// once the value is read and cached, Detached once ownership has moved
// elsewhere (via TakeFrom) or the handle's Transaction was aborted.
type handleState uint8

const (
	statePending handleState = iota
	stateResolved
	stateDetached
)

// baseReply is embedded in every concrete handle type. It is not itself a
// pendingReply — each concrete type supplies its own resolve(), because
// resolve() must know which Framer primitive to call.
type baseReply struct {
	conn  *Connection
	seq   uint64
	state handleState
	err   error
	// txn is set when this handle was created while a Transaction on conn
	// was Dirty. A non-nil txn still in txDirty state blocks materialize
	// (ErrTransactionMisuse, §9) until Commit/Abort resolves it.
	txn *Transaction
}

func (b *baseReply) seqNum() uint64 { return b.seq }

func (b *baseReply) finish(err error) {
	b.state = stateResolved
	b.err = err
}

func (b *baseReply) markDetached(err error) {
	b.state = stateDetached
	b.err = err
}

// VoidReply represents a deferred reply whose only meaningful content is
// whether the server answered with a simple status. Commands like Set,
// Rename, Select, and LTrim return one.
type VoidReply struct {
	base baseReply
}

func newVoidReply(c *Connection) *VoidReply {
	r := &VoidReply{}
	r.base.conn = c
	c.track(r)
	runtime.SetFinalizer(r, (*VoidReply).finalize)
	return r
}

func (r *VoidReply) seqNum() uint64  { return r.base.seqNum() }
func (r *VoidReply) baseRef() *baseReply { return &r.base }

func (r *VoidReply) resolve() error {
	if r.base.state != statePending {
		return r.base.err
	}
	_, err := r.base.conn.framer.readStatus(r.base.conn.transport.r)
	r.base.finish(err)
	return err
}

func (r *VoidReply) assignFromValue(v respValue) error {
	switch v.kind {
	case '+':
		r.base.finish(nil)
		return nil
	case '-':
		err := ServerError(v.status)
		r.base.finish(err)
		return err
	default:
		err := newProtocolError("expected status reply inside transaction array")
		r.base.finish(err)
		return err
	}
}

// Result reports whether the command completed with +OK (a non-nil error
// otherwise), forcing materialization — and draining every earlier
// pending handle on the Connection first — if the reply is still Pending.
func (r *VoidReply) Result() error {
	if r.base.state == stateDetached {
		return r.base.err
	}
	if r.base.state == statePending {
		return r.base.conn.materialize(r)
	}
	return r.base.err
}

// Discard drops the handle. Its reply is still drained off the wire (so
// later handles stay correctly framed) but any error is swallowed.
func (r *VoidReply) Discard() { _ = r.Result() }

func (r *VoidReply) finalize() { r.Discard() }

// TakeFrom materializes r's own current reply (to preserve wire ordering)
// and then adopts src's queue slot and pending state; src becomes
// Detached. This is the two-step stand-in for the source design's
// implicit copy/move assignment (spec.md §9's "implementations without
// move semantics should expose a two-step take() operation") — Go has no
// copy-constructor hook to run automatically on `r = src`.
func (r *VoidReply) TakeFrom(src *VoidReply) error {
	if err := r.Result(); err != nil {
		return err
	}
	if src.base.state == statePending {
		src.base.conn.retarget(src.base.seqNum(), r)
	}
	r.base = src.base
	src.base.markDetached(nil)
	return nil
}

// BoolReply represents a deferred reply read as a RESP integer and
// surfaced as a boolean (value > 0). Exists, Expire, SIsMember, HDel, and
// similar commands return one.
type BoolReply struct {
	base   baseReply
	result bool
}

func newBoolReply(c *Connection) *BoolReply {
	r := &BoolReply{}
	r.base.conn = c
	c.track(r)
	runtime.SetFinalizer(r, (*BoolReply).finalize)
	return r
}

func (r *BoolReply) seqNum() uint64  { return r.base.seqNum() }
func (r *BoolReply) baseRef() *baseReply { return &r.base }

func (r *BoolReply) resolve() error {
	if r.base.state != statePending {
		return r.base.err
	}
	n, err := r.base.conn.framer.readInteger(r.base.conn.transport.r)
	r.result = n > 0
	r.base.finish(err)
	return err
}

func (r *BoolReply) assignFromValue(v respValue) error {
	switch v.kind {
	case ':':
		r.result = v.integer > 0
		r.base.finish(nil)
		return nil
	case '-':
		err := ServerError(v.status)
		r.base.finish(err)
		return err
	default:
		err := newProtocolError("expected integer reply inside transaction array")
		r.base.finish(err)
		return err
	}
}

// Result returns the boolean value, forcing materialization if needed.
func (r *BoolReply) Result() (bool, error) {
	if r.base.state == stateDetached {
		return false, r.base.err
	}
	if r.base.state == statePending {
		if err := r.base.conn.materialize(r); err != nil {
			return false, err
		}
	}
	return r.result, r.base.err
}

func (r *BoolReply) Discard() { _, _ = r.Result() }

func (r *BoolReply) finalize() { r.Discard() }

// TakeFrom — see VoidReply.TakeFrom.
func (r *BoolReply) TakeFrom(src *BoolReply) error {
	if _, err := r.Result(); err != nil {
		return err
	}
	if src.base.state == statePending {
		src.base.conn.retarget(src.base.seqNum(), r)
	}
	r.base = src.base
	r.result = src.result
	src.base.markDetached(nil)
	return nil
}

// IntegerReply represents a deferred RESP integer reply. Incr, LLen,
// SCard, Publish, and similar commands return one.
type IntegerReply struct {
	base   baseReply
	result int64
}

func newIntegerReply(c *Connection) *IntegerReply {
	r := &IntegerReply{}
	r.base.conn = c
	c.track(r)
	runtime.SetFinalizer(r, (*IntegerReply).finalize)
	return r
}

func (r *IntegerReply) seqNum() uint64  { return r.base.seqNum() }
func (r *IntegerReply) baseRef() *baseReply { return &r.base }

func (r *IntegerReply) resolve() error {
	if r.base.state != statePending {
		return r.base.err
	}
	n, err := r.base.conn.framer.readInteger(r.base.conn.transport.r)
	r.result = n
	r.base.finish(err)
	return err
}

func (r *IntegerReply) assignFromValue(v respValue) error {
	switch v.kind {
	case ':':
		r.result = v.integer
		r.base.finish(nil)
		return nil
	case '-':
		err := ServerError(v.status)
		r.base.finish(err)
		return err
	default:
		err := newProtocolError("expected integer reply inside transaction array")
		r.base.finish(err)
		return err
	}
}

// Result returns the integer value, forcing materialization if needed.
func (r *IntegerReply) Result() (int64, error) {
	if r.base.state == stateDetached {
		return 0, r.base.err
	}
	if r.base.state == statePending {
		if err := r.base.conn.materialize(r); err != nil {
			return 0, err
		}
	}
	return r.result, r.base.err
}

func (r *IntegerReply) Discard() { _, _ = r.Result() }

func (r *IntegerReply) finalize() { r.Discard() }

// TakeFrom — see VoidReply.TakeFrom.
func (r *IntegerReply) TakeFrom(src *IntegerReply) error {
	if _, err := r.Result(); err != nil {
		return err
	}
	if src.base.state == statePending {
		src.base.conn.retarget(src.base.seqNum(), r)
	}
	r.base = src.base
	r.result = src.result
	src.base.markDetached(nil)
	return nil
}

// BulkReply represents a deferred RESP bulk-string reply. Get, GetSet,
// LIndex, HGet, SRandMember, and similar commands return one.
type BulkReply struct {
	base   baseReply
	data   []byte
	isNull bool
}

func newBulkReply(c *Connection) *BulkReply {
	r := &BulkReply{}
	r.base.conn = c
	c.track(r)
	runtime.SetFinalizer(r, (*BulkReply).finalize)
	return r
}

func (r *BulkReply) seqNum() uint64  { return r.base.seqNum() }
func (r *BulkReply) baseRef() *baseReply { return &r.base }

func (r *BulkReply) resolve() error {
	if r.base.state != statePending {
		return r.base.err
	}
	data, ok, err := r.base.conn.framer.readBulk(r.base.conn.transport.r)
	r.data, r.isNull = data, !ok
	r.base.finish(err)
	return err
}

func (r *BulkReply) assignFromValue(v respValue) error {
	switch v.kind {
	case '$':
		r.data, r.isNull = v.bulk, v.bulkNull
		r.base.finish(nil)
		return nil
	case '-':
		err := ServerError(v.status)
		r.base.finish(err)
		return err
	default:
		err := newProtocolError("expected bulk reply inside transaction array")
		r.base.finish(err)
		return err
	}
}

// Optional returns the bytes and whether they were present — a null bulk
// ($-1) yields ok == false without raising ErrNull (spec.md §4.1/§7: the
// optional accessor never raises NullReply).
func (r *BulkReply) Optional() (data []byte, ok bool, err error) {
	if r.base.state == stateDetached {
		return nil, false, r.base.err
	}
	if r.base.state == statePending {
		if err := r.base.conn.materialize(r); err != nil {
			return nil, false, err
		}
	}
	return r.data, !r.isNull, r.base.err
}

// Result returns the bytes, raising ErrNull if the server replied with a
// null bulk.
func (r *BulkReply) Result() ([]byte, error) {
	data, ok, err := r.Optional()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNull
	}
	return data, nil
}

// String is a convenience wrapper around Result for text values.
func (r *BulkReply) String() (string, error) {
	data, err := r.Result()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *BulkReply) Discard() { _, _, _ = r.Optional() }

func (r *BulkReply) finalize() { r.Discard() }

// TakeFrom — see VoidReply.TakeFrom.
func (r *BulkReply) TakeFrom(src *BulkReply) error {
	if _, _, err := r.Optional(); err != nil {
		return err
	}
	if src.base.state == statePending {
		src.base.conn.retarget(src.base.seqNum(), r)
	}
	r.base = src.base
	r.data, r.isNull = src.data, src.isNull
	src.base.markDetached(nil)
	return nil
}

// MultiBulkReply is a lazy iterator over a RESP array reply: Keys, LRange,
// SMembers, HGetAll, and similar commands return one. It may hold its
// queue slot across multiple Next calls; if some later handle forces a
// drain through it first, the remaining elements are read eagerly into an
// internal buffer (spec.md §4.4's "lazy drain" subtlety) so Next continues
// to work exactly as if the caller had driven it directly.
type MultiBulkReply struct {
	base       baseReply
	headerRead bool
	isNull     bool
	remaining  int64
	buffered   [][]byte
	consumed   int
}

func newMultiBulkReply(c *Connection) *MultiBulkReply {
	r := &MultiBulkReply{}
	r.base.conn = c
	c.track(r)
	runtime.SetFinalizer(r, (*MultiBulkReply).finalize)
	return r
}

func (r *MultiBulkReply) seqNum() uint64  { return r.base.seqNum() }
func (r *MultiBulkReply) baseRef() *baseReply { return &r.base }

// resolve performs an eager, full drain: read the header if not already
// read, then read every remaining element into the buffer. This is what
// runs when this handle is a *predecessor* being forced by some later
// handle's materialization (P4), and also what Connection.Close uses for
// handles still queued. Discard reads through Next (via All) instead.
func (r *MultiBulkReply) resolve() error {
	if r.base.state != statePending {
		return r.base.err
	}
	if !r.headerRead {
		count, ok, err := r.base.conn.framer.readMultiBulkHeader(r.base.conn.transport.r)
		r.headerRead = true
		if err != nil {
			r.base.finish(err)
			return err
		}
		if !ok {
			r.isNull = true
			r.remaining = 0
		} else {
			r.remaining = count
		}
	}
	for r.remaining > 0 {
		data, ok, err := r.base.conn.framer.readBulk(r.base.conn.transport.r)
		if err != nil {
			r.base.finish(err)
			return err
		}
		if !ok {
			data = nil
		}
		r.buffered = append(r.buffered, data)
		r.remaining--
	}
	r.base.finish(nil)
	return nil
}

func (r *MultiBulkReply) assignFromValue(v respValue) error {
	switch v.kind {
	case '*':
		r.headerRead = true
		if v.arrayNull {
			r.isNull = true
			r.base.finish(nil)
			return nil
		}
		r.buffered = make([][]byte, len(v.array))
		for i, el := range v.array {
			if el.kind != '$' {
				err := newProtocolError("expected bulk element inside transaction array reply")
				r.base.finish(err)
				return err
			}
			if !el.bulkNull {
				r.buffered[i] = el.bulk
			}
		}
		r.base.finish(nil)
		return nil
	case '-':
		err := ServerError(v.status)
		r.base.finish(err)
		return err
	default:
		err := newProtocolError("expected array reply inside transaction array")
		r.base.finish(err)
		return err
	}
}

// Next yields the next element (nil, true for a null element) or ok ==
// false once the array is exhausted. Only the first call — the one that
// reads the array header — drains earlier handles on the Connection;
// later calls read directly, since nothing can precede this handle in the
// queue once its header has been consumed.
func (r *MultiBulkReply) Next() (value []byte, ok bool, err error) {
	if r.consumed < len(r.buffered) {
		v := r.buffered[r.consumed]
		r.consumed++
		return v, true, nil
	}
	if r.base.state == stateDetached {
		return nil, false, r.base.err
	}
	if r.base.state == stateResolved {
		return nil, false, nil
	}
	if !r.headerRead {
		if err := r.base.conn.materializeMultiBulkHeader(r); err != nil {
			return nil, false, err
		}
		if r.consumed < len(r.buffered) {
			v := r.buffered[r.consumed]
			r.consumed++
			return v, true, nil
		}
	}
	if r.remaining <= 0 {
		if r.base.state == statePending {
			r.base.finish(nil)
			r.base.conn.queue.removeSeq(r.seqNum())
		}
		return nil, false, nil
	}
	data, bulkOK, err := r.base.conn.framer.readBulk(r.base.conn.transport.r)
	if err != nil {
		r.base.finish(err)
		r.base.conn.latch(err)
		r.base.conn.queue.removeSeq(r.seqNum())
		return nil, false, err
	}
	if !bulkOK {
		data = nil
	}
	r.remaining--
	if r.remaining == 0 {
		r.base.finish(nil)
		r.base.conn.queue.removeSeq(r.seqNum())
	}
	return data, true, nil
}

// All drains every remaining element and returns them as a slice. Call it
// instead of Next when the full list is wanted at once.
func (r *MultiBulkReply) All() ([][]byte, error) {
	var out [][]byte
	for {
		v, ok, err := r.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

func (r *MultiBulkReply) Discard() { _, _ = r.All() }

func (r *MultiBulkReply) finalize() { r.Discard() }

// TakeFrom — see VoidReply.TakeFrom. Any elements already drained out of
// src via Next are lost, matching the source design's own copy-assignment
// behavior (it only preserves unread elements, via its pending list).
func (r *MultiBulkReply) TakeFrom(src *MultiBulkReply) error {
	if _, err := r.All(); err != nil {
		return err
	}
	if src.base.state == statePending {
		src.base.conn.retarget(src.base.seqNum(), r)
	}
	r.base = src.base
	r.headerRead = src.headerRead
	r.isNull = src.isNull
	r.remaining = src.remaining
	r.buffered = src.buffered[src.consumed:]
	r.consumed = 0
	src.base.markDetached(nil)
	return nil
}
