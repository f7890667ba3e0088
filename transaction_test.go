package redis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransactionCommitDistributesValues(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		// MULTI -> +OK, SET x 1 -> +QUEUED, SET y 21 -> +QUEUED,
		// GET x -> +QUEUED, EXEC -> the array of real replies.
		for i := 0; i < 4; i++ {
			if _, err := fs.serveOne(); err != nil {
				done <- err
				return
			}
			var reply string
			if i == 0 {
				reply = "+OK\r\n"
			} else {
				reply = "+QUEUED\r\n"
			}
			if err := fs.write(reply); err != nil {
				done <- err
				return
			}
		}
		if _, err := fs.serveOne(); err != nil { // EXEC
			done <- err
			return
		}
		done <- fs.write("*3\r\n+OK\r\n+OK\r\n$1\r\n1\r\n")
	}()

	txn, err := Begin(c)
	require.NoError(t, err)

	setX := c.Set("x", "1")
	setY := c.Set("y", "21")
	getX := c.Get("x")

	require.NoError(t, txn.Commit())
	require.NoError(t, <-done)

	require.NoError(t, setX.Result())
	require.NoError(t, setY.Result())
	gotX, err := getX.String()
	require.NoError(t, err)
	require.Equal(t, "1", gotX)
}

func TestTransactionMidFlightAccessIsRejected(t *testing.T) {
	c, fs := newTestConnection()

	txn, err := Begin(c)
	require.NoError(t, err)

	// MULTI and SET x 1 sit unflushed in the write buffer; guardTransaction
	// rejects materializing setX before any byte reaches the wire.
	setX := c.Set("x", "1")
	err = setX.Result()
	require.ErrorIs(t, err, ErrTransactionMisuse)

	// Abort flushes MULTI+SET+DISCARD together; serve all three replies.
	done := make(chan error, 1)
	go func() {
		if _, err := fs.serveOne(); err != nil { // MULTI
			done <- err
			return
		}
		if err := fs.write("+OK\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // SET x 1
			done <- err
			return
		}
		if err := fs.write("+QUEUED\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // DISCARD
			done <- err
			return
		}
		done <- fs.write("+OK\r\n")
	}()
	require.NoError(t, txn.Abort())
	require.NoError(t, <-done)
}

func TestTransactionAbortDetachesHandles(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		if _, err := fs.serveOne(); err != nil { // MULTI
			done <- err
			return
		}
		if err := fs.write("+OK\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // SET x 1
			done <- err
			return
		}
		if err := fs.write("+QUEUED\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil { // DISCARD
			done <- err
			return
		}
		done <- fs.write("+OK\r\n")
	}()

	txn, err := Begin(c)
	require.NoError(t, err)
	setX := c.Set("x", "1")

	require.NoError(t, txn.Abort())
	require.NoError(t, <-done)

	err = setX.Result()
	require.ErrorIs(t, err, ErrTransactionAborted)
}

func TestBeginRejectsNestedTransaction(t *testing.T) {
	c, _ := newTestConnection()

	// MULTI sits unflushed in the write buffer; no server interaction is
	// needed to observe that a second Begin is rejected.
	_, err := Begin(c)
	require.NoError(t, err)

	_, err = Begin(c)
	require.ErrorIs(t, err, ErrTransactionMisuse)
}
