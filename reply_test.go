package redis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBulkReplyDiscardDrainsWithoutReading covers the "drop a Pending
// handle without ever reading it" property (P2): Discard must still pull
// the reply off the wire so a later handle on the same Connection stays
// correctly framed, even though the caller never asked for the value.
func TestBulkReplyDiscardDrainsWithoutReading(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		if _, err := fs.serveOne(); err != nil { // GET ignored
			done <- err
			return
		}
		if err := fs.write(bulk("stale")); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // GET kept
			done <- err
			return
		}
		done <- fs.write(bulk("v"))
	}()

	discarded := c.Get("ignored")
	discarded.Discard()

	got, err := c.Get("kept").String()
	require.NoError(t, err)
	require.Equal(t, "v", got)
	require.NoError(t, <-done)
}

// TestMultiBulkReplyDiscardDrainsWithoutReading covers the same P2
// property for the lazy-iterator handle: Discard on a MultiBulkReply that
// was never iterated must still fully drain its array off the wire.
func TestMultiBulkReplyDiscardDrainsWithoutReading(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		if _, err := fs.serveOne(); err != nil { // LRANGE
			done <- err
			return
		}
		if err := fs.write("*2\r\n$1\r\na\r\n$1\r\nb\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // GET
			done <- err
			return
		}
		done <- fs.write(bulk("after"))
	}()

	discarded := c.LRange("k", 0, -1)
	discarded.Discard()

	got, err := c.Get("other").String()
	require.NoError(t, err)
	require.Equal(t, "after", got)
	require.NoError(t, <-done)
}

// TestBulkReplyTakeFromReassignsMidPipeline covers the reassignment
// property (P3): TakeFrom must preserve the still-pending source's place
// in line — the wire read it triggers comes out correctly framed — while
// moving ownership of that future value onto the destination handle and
// leaving the source Detached.
func TestBulkReplyTakeFromReassignsMidPipeline(t *testing.T) {
	c, fs := newTestConnection()
	fs.store["x"] = "1"
	fs.store["y"] = "2"
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 2) // GET x -> "1", GET y -> "2"
	}()

	holder := c.Get("x")
	pending := c.Get("y")

	require.NoError(t, holder.TakeFrom(pending))

	// holder now owns pending's still-open slot (GET y); reading it is what
	// unblocks the fake server's second, synchronous net.Pipe write.
	got, err := holder.String()
	require.NoError(t, err)
	require.Equal(t, "2", got)
	require.NoError(t, <-done)

	require.Equal(t, stateDetached, pending.base.state)
	require.NoError(t, pending.base.err)
}

// TestVoidReplyTakeFromMaterializesDestinationFirst checks that TakeFrom
// forces the destination's own outstanding reply to resolve before it
// adopts the source's slot, so wire order is never skipped over.
func TestVoidReplyTakeFromMaterializesDestinationFirst(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 2) // SET a -> +OK, SET b -> +OK
	}()

	holder := c.Set("a", "1")
	pending := c.Set("b", "2")

	// TakeFrom materializes holder's own SET a reply (draining it as
	// holder's own predecessor) before adopting pending's still-open slot;
	// holder then reports whatever pending later resolves to.
	require.NoError(t, holder.TakeFrom(pending))
	require.NoError(t, holder.Result())
	require.NoError(t, <-done)

	require.Equal(t, stateResolved, holder.base.state)
	require.Equal(t, stateDetached, pending.base.state)
}
