package redis

// Type is the value-kind a key holds, as reported by the TYPE command.
type Type int

const (
	TypeNone Type = iota
	TypeString
	TypeList
	TypeSet
	TypeZSet
	TypeHash
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeSet:
		return "set"
	case TypeZSet:
		return "zset"
	case TypeHash:
		return "hash"
	default:
		return "unknown"
	}
}

// Type reads the TYPE reply eagerly (§4.5: it is a special case, not a
// deferred handle) and maps the canonical strings to a Type value.
func (c *Connection) Type(key string) (Type, error) {
	if c.broken != nil {
		return TypeNone, c.broken
	}
	if err := c.guardDirect(); err != nil {
		return TypeNone, err
	}
	if err := c.framer.encodeRequest(c.transport.w, "TYPE", []byte(key)); err != nil {
		return TypeNone, err
	}
	if err := c.transport.flush(); err != nil {
		c.latch(err)
		return TypeNone, err
	}
	if err := c.queue.drainPredecessorsOf(c.queue.next); err != nil {
		c.latch(err)
		return TypeNone, err
	}
	status, err := c.framer.readStatus(c.transport.r)
	if err != nil {
		if !isServerError(err) {
			c.latch(err)
		}
		return TypeNone, err
	}
	switch status {
	case "none":
		return TypeNone, nil
	case "string":
		return TypeString, nil
	case "list":
		return TypeList, nil
	case "set":
		return TypeSet, nil
	case "zset":
		return TypeZSet, nil
	case "hash":
		return TypeHash, nil
	default:
		return TypeNone, newProtocolError("unrecognized TYPE reply " + status)
	}
}

func isServerError(err error) bool {
	_, ok := err.(ServerError)
	return ok
}

// guardDirect rejects an eager, non-handle command (TYPE) while a
// Transaction is Dirty: TYPE's status line would otherwise be read out of
// turn with the queued +QUEUED lines.
func (c *Connection) guardDirect() error {
	if c.txn != nil && c.txn.state == txDirty {
		return ErrTransactionMisuse
	}
	return nil
}
