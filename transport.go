package redis

import (
	"bufio"
	"net"
	"time"
)

// transport owns one socket: buffered writes with an explicit flush, and
// blocking reads. It never reorders or retries; a broken transport is
// replaced only by dialing a new Connection, matching §5's "terminal for
// the Connection" rule for I/O failures.
type transport struct {
	conn net.Conn
	w    *bufio.Writer
	r    *bufio.Reader
}

func dialTransport(addr string, connectTimeout time.Duration, noDelay bool, writeBufferSize int) (*transport, error) {
	network := "tcp"
	if isUnixAddr(addr) {
		network = "unix"
	}

	conn, err := net.DialTimeout(network, addr, connectTimeout)
	if err != nil {
		return nil, newIoError("dial", err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		// Keepalive defaults on; TCP_NODELAY is opt-in (§4.2).
		_ = tcp.SetKeepAlive(true)
		if noDelay {
			_ = tcp.SetNoDelay(true)
		}
	}

	if writeBufferSize <= 0 {
		writeBufferSize = defaultWriteBufferSize
	}

	return &transport{
		conn: conn,
		w:    bufio.NewWriterSize(conn, writeBufferSize),
		r:    bufio.NewReaderSize(conn, conservativeMSS),
	}, nil
}

func (t *transport) flush() error {
	if err := t.w.Flush(); err != nil {
		return newIoError("flush", err)
	}
	return nil
}

func (t *transport) close() error {
	// The buffered writer is flushed best-effort on close; a failed flush
	// here does not change the close outcome — the caller already decided
	// to tear the connection down.
	_ = t.w.Flush()
	if err := t.conn.Close(); err != nil {
		return newIoError("close", err)
	}
	return nil
}
