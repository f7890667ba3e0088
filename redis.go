// Package redis is a synchronous, pipelining client for the Redis
// key-value server. See <https://redis.io/topics/introduction> for the
// concept and <https://redis.io/topics/pipelining> for the technique
// this package is built around.
//
// Commands are sent eagerly; their replies are deferred behind typed
// handles (*VoidReply, *BoolReply, *IntegerReply, *BulkReply,
// *MultiBulkReply). A handle may be materialized at any time — forcing
// it drains every earlier, still-pending handle on the same Connection
// first, so the reply order on the wire is always respected regardless
// of the order in which the caller asks for values.
package redis

import (
	"net"
	"path/filepath"
)

// Server Limits
const (
	// SizeMax is the upper boundary for byte sizes.
	// A string value can be at most 512 MiB in length.
	SizeMax = 512 << 20

	// KeyMax is the upper boundary for key counts.
	// Redis can handle up to 2^32 keys.
	KeyMax = 1 << 32

	// ElementMax is the upper boundary for element counts.
	// Every hash, list, set, and sorted set, can hold 2^32 - 1 elements.
	ElementMax = 1<<32 - 1
)

// Fixed Settings
const (
	// IPv6 minimum MTU of 1280 bytes, minus a 40 byte IP header,
	// minus a 32 byte TCP header (with timestamps).
	conservativeMSS = 1208

	// defaultWriteBufferSize is used when Options.WriteBufferSize is zero.
	defaultWriteBufferSize = 4096
)

func isUnixAddr(s string) bool {
	return len(s) != 0 && s[0] == '/'
}

func normalizeAddr(s string) string {
	if isUnixAddr(s) {
		return filepath.Clean(s)
	}

	host, port, err := net.SplitHostPort(s)
	if err != nil {
		host = s
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(host, port)
}

// ParseInt assumes a valid decimal string — no validation. The empty
// slice returns zero. framer.parseSignedInt validates a field's shape
// once and then calls this for the actual conversion, on every numeric
// field the wire format carries (bulk/array lengths, `:` integers).
func ParseInt(bytes []byte) int64 {
	if len(bytes) == 0 {
		return 0
	}
	u := uint64(bytes[0])

	neg := false
	if u == '-' {
		neg = true
		u = 0
	} else {
		u -= '0'
	}

	for i := 1; i < len(bytes); i++ {
		u = u*10 + uint64(bytes[i]-'0')
	}

	value := int64(u)
	if neg {
		value = -value
	}
	return value
}
