package redis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionSetThenGet(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 2)
	}()

	require.NoError(t, c.Set("hello", "world").Result())
	got, err := c.Get("hello").String()
	require.NoError(t, err)
	require.Equal(t, "world", got)
	require.NoError(t, <-done)
}

func TestConnectionPipelineReverseOrder(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 4)
	}()

	setA := c.Set("a", "1")
	setB := c.Set("b", "2")
	getA := c.Get("a")
	getB := c.Get("b")

	// Force materialization in reverse order; wire consumption must still
	// proceed front-to-back (P1).
	gotB, err := getB.String()
	require.NoError(t, err)
	require.Equal(t, "2", gotB)

	gotA, err := getA.String()
	require.NoError(t, err)
	require.Equal(t, "1", gotA)

	require.NoError(t, setB.Result())
	require.NoError(t, setA.Result())
	require.NoError(t, <-done)
}

func TestConnectionNullBulk(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 1)
	}()

	data, ok, err := c.Get("missing").Optional()
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, data)
	require.NoError(t, <-done)

	// A second handle against the same (still healthy) connection proves
	// a null reply never desynchronizes the stream.
	done2 := make(chan error, 1)
	go func() {
		done2 <- serveN(fs, 1)
	}()
	require.NoError(t, c.Set("k", "v").Result())
	require.NoError(t, <-done2)
}

func TestConnectionGetMissingRaisesErrNull(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		done <- serveN(fs, 1)
	}()

	_, err := c.Get("missing").Result()
	require.ErrorIs(t, err, ErrNull)
	require.NoError(t, <-done)
}

func TestConnectionBLPopTimeout(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		argv, err := fs.serveOne()
		if err != nil {
			done <- err
			return
		}
		if argv[0] != "BLPOP" {
			done <- errBoomf("unexpected command %v", argv)
			return
		}
		done <- fs.write("*-1\r\n")
	}()

	reply := c.BLPop(1, "notalist")
	v, ok, err := reply.Next()
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, v)
	require.NoError(t, <-done)
}

func TestMultiBulkLazyDrainBeforeLaterHandle(t *testing.T) {
	c, fs := newTestConnection()
	done := make(chan error, 1)
	go func() {
		// LRANGE k 0 -1 -> a 2-element array; LLEN k -> an integer, read
		// as a predecessor drain of the still-open MultiBulk.
		if _, err := fs.serveOne(); err != nil {
			done <- err
			return
		}
		if err := fs.write("*2\r\n$1\r\na\r\n$1\r\nb\r\n"); err != nil {
			done <- err
			return
		}
		if _, err := fs.serveOne(); err != nil {
			done <- err
			return
		}
		done <- fs.write(":2\r\n")
	}()

	lrange := c.LRange("k", 0, -1)
	llen := c.LLen("k")

	n, err := llen.Result()
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	elements, err := lrange.All()
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("a"), []byte("b")}, elements)
	require.NoError(t, <-done)
}

func serveN(fs *fakeServer, n int) error {
	for i := 0; i < n; i++ {
		if err := fs.respond(); err != nil {
			return err
		}
	}
	return nil
}

func errBoomf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
