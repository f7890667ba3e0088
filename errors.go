package redis

import (
	"errors"
	"fmt"
)

// ErrClosed rejects command execution after Connection.Close.
var ErrClosed = errors.New("redis: connection closed")

// IoError wraps a socket read/write/close failure. It is terminal for the
// Connection: once observed, every subsequent operation returns it unchanged.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("redis: io error during %s: %v", e.Op, e.Err) }

func (e *IoError) Unwrap() error { return e.Err }

func newIoError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Err: err}
}

// ProtocolError signals that a reply byte did not match the expected kind,
// a length or count did not agree, or a numeric field was malformed. Like
// IoError, it desynchronizes the stream and is terminal for the Connection.
type ProtocolError struct {
	msg string
	err error
}

func (e *ProtocolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("redis: protocol error: %s: %v", e.msg, e.err)
	}
	return "redis: protocol error: " + e.msg
}

func (e *ProtocolError) Unwrap() error { return e.err }

func newProtocolError(msg string) error {
	return &ProtocolError{msg: msg}
}

// ServerError is a RESP `-` reply. The stream remains correctly framed;
// this is a recoverable, per-command failure.
type ServerError string

// Error honors the error interface.
func (e ServerError) Error() string {
	return fmt.Sprintf("redis: server error %q", string(e))
}

// Prefix returns the first word, which is conventionally the error kind
// (e.g. "WRONGTYPE", "NOAUTH").
func (e ServerError) Prefix() string {
	s := string(e)
	for i, r := range s {
		if r == ' ' {
			return s[:i]
		}
	}
	return s
}

// ErrNull is returned by a non-optional accessor when the underlying reply
// was a null bulk ($-1) or null array (*-1). It never desynchronizes the
// stream; the Connection remains usable for the next command.
var ErrNull = errors.New("redis: null reply")

// ErrTransactionMisuse is returned when a per-call handle produced inside a
// Dirty transaction is materialized before Commit/Abort resolves it, or
// when a second Transaction is started while one is already attached.
var ErrTransactionMisuse = errors.New("redis: transaction misuse")

// ErrTransactionAborted is the error recorded on every per-call handle
// that was queued inside a Transaction which was later Discarded instead
// of Committed. Aborted handles carry no reply — the server never sent
// one for them beyond the shared +QUEUED status — so this sentinel is
// what Result()/Optional() observe instead of a materialized value.
var ErrTransactionAborted = errors.New("redis: transaction aborted")

func isTerminal(err error) bool {
	var ioErr *IoError
	var protoErr *ProtocolError
	return errors.As(err, &ioErr) || errors.As(err, &protoErr)
}
