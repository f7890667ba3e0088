package redis

import "testing"

type fakePending struct {
	seq      uint64
	resolved bool
	err      error
}

func (f *fakePending) seqNum() uint64 { return f.seq }
func (f *fakePending) resolve() error {
	f.resolved = true
	return f.err
}

func TestReplyQueueDrainThroughOrder(t *testing.T) {
	var q replyQueue
	a := &fakePending{seq: q.nextSeq()}
	b := &fakePending{seq: q.nextSeq()}
	c := &fakePending{seq: q.nextSeq()}
	q.enqueue(a)
	q.enqueue(b)
	q.enqueue(c)

	if err := q.drainThrough(b); err != nil {
		t.Fatalf("drainThrough: %v", err)
	}
	if !a.resolved || !b.resolved {
		t.Errorf("expected a and b resolved, got a=%v b=%v", a.resolved, b.resolved)
	}
	if c.resolved {
		t.Errorf("c should not be resolved yet")
	}
	if q.depth() != 1 {
		t.Errorf("got depth %d, want 1", q.depth())
	}
}

func TestReplyQueueDrainPredecessorsOfLeavesTarget(t *testing.T) {
	var q replyQueue
	a := &fakePending{seq: q.nextSeq()}
	b := &fakePending{seq: q.nextSeq()}
	q.enqueue(a)
	q.enqueue(b)

	if err := q.drainPredecessorsOf(b.seqNum()); err != nil {
		t.Fatalf("drainPredecessorsOf: %v", err)
	}
	if !a.resolved {
		t.Errorf("expected a resolved")
	}
	if b.resolved {
		t.Errorf("b should not be resolved by drainPredecessorsOf")
	}
	if q.depth() != 1 {
		t.Errorf("got depth %d, want 1 (b still queued)", q.depth())
	}
}

func TestReplyQueueStopsOnTerminalError(t *testing.T) {
	var q replyQueue
	a := &fakePending{seq: q.nextSeq(), err: &IoError{Op: "read", Err: errBoom}}
	b := &fakePending{seq: q.nextSeq()}
	q.enqueue(a)
	q.enqueue(b)

	err := q.drainThrough(b)
	if err == nil {
		t.Fatal("expected the terminal IoError to propagate")
	}
	if b.resolved {
		t.Errorf("b should not have been reached after a's terminal error")
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
