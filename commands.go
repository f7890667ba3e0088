package redis

import "strconv"

func itob(n int64) []byte { return strconv.AppendInt(nil, n, 10) }
func ftob(f float64) []byte { return strconv.AppendFloat(nil, f, 'g', -1, 64) }

// --- Connection ---

// Quit sends QUIT. The server closes the connection after replying; the
// caller should still call Close to release local resources.
func (c *Connection) Quit() *VoidReply { return c.sendVoid("QUIT") }

// Auth sends AUTH outside of Dial, for servers that enable requirepass
// after the connection was opened.
func (c *Connection) Auth(password string) *VoidReply {
	return c.sendVoid("AUTH", []byte(password))
}

// Select switches the active database index.
func (c *Connection) Select(index int) *VoidReply {
	return c.sendVoid("SELECT", itob(int64(index)))
}

// --- Key space ---

func (c *Connection) Exists(key string) *BoolReply { return c.sendBool("EXISTS", []byte(key)) }
func (c *Connection) Del(keys ...string) *IntegerReply {
	return c.sendInteger("DEL", stringsToBytes(keys)...)
}
func (c *Connection) Keys(pattern string) *MultiBulkReply {
	return c.sendMultiBulk("KEYS", []byte(pattern))
}
func (c *Connection) RandomKey() *BulkReply { return c.sendBulk("RANDOMKEY") }
func (c *Connection) Rename(src, dst string) *VoidReply {
	return c.sendVoid("RENAME", []byte(src), []byte(dst))
}
func (c *Connection) RenameNX(src, dst string) *BoolReply {
	return c.sendBool("RENAMENX", []byte(src), []byte(dst))
}
func (c *Connection) DBSize() *IntegerReply { return c.sendInteger("DBSIZE") }
func (c *Connection) Expire(key string, seconds int64) *BoolReply {
	return c.sendBool("EXPIRE", []byte(key), itob(seconds))
}
func (c *Connection) ExpireAt(key string, unixTime int64) *BoolReply {
	return c.sendBool("EXPIREAT", []byte(key), itob(unixTime))
}
func (c *Connection) TTL(key string) *IntegerReply { return c.sendInteger("TTL", []byte(key)) }
func (c *Connection) Move(key string, db int) *BoolReply {
	return c.sendBool("MOVE", []byte(key), itob(int64(db)))
}
func (c *Connection) FlushDB() *VoidReply  { return c.sendVoid("FLUSHDB") }
func (c *Connection) FlushAll() *VoidReply { return c.sendVoid("FLUSHALL") }

// Persist removes a key's expiry. Supplemented: left as a //TODO: stub in
// the distilled original (SPEC_FULL.md §6).
func (c *Connection) Persist(key string) *BoolReply { return c.sendBool("PERSIST", []byte(key)) }

// --- Strings ---

func (c *Connection) Set(key, value string) *VoidReply {
	return c.sendVoid("SET", []byte(key), []byte(value))
}
func (c *Connection) Get(key string) *BulkReply { return c.sendBulk("GET", []byte(key)) }
func (c *Connection) GetSet(key, value string) *BulkReply {
	return c.sendBulk("GETSET", []byte(key), []byte(value))
}
func (c *Connection) SetNX(key, value string) *BoolReply {
	return c.sendBool("SETNX", []byte(key), []byte(value))
}
func (c *Connection) SetEX(key string, seconds int64, value string) *VoidReply {
	return c.sendVoid("SETEX", []byte(key), itob(seconds), []byte(value))
}
func (c *Connection) Incr(key string) *IntegerReply { return c.sendInteger("INCR", []byte(key)) }
func (c *Connection) IncrBy(key string, delta int64) *IntegerReply {
	return c.sendInteger("INCRBY", []byte(key), itob(delta))
}
func (c *Connection) Decr(key string) *IntegerReply { return c.sendInteger("DECR", []byte(key)) }
func (c *Connection) DecrBy(key string, delta int64) *IntegerReply {
	return c.sendInteger("DECRBY", []byte(key), itob(delta))
}
func (c *Connection) Append(key, value string) *IntegerReply {
	return c.sendInteger("APPEND", []byte(key), []byte(value))
}
func (c *Connection) Substr(key string, start, end int64) *BulkReply {
	return c.sendBulk("SUBSTR", []byte(key), itob(start), itob(end))
}

// MGet, MSet, and MSetNX supplement the distilled original's //TODO: stubs
// (SPEC_FULL.md §6), mirroring Get/Set pluralized to a MultiBulk reply and
// a variadic key/value pair request respectively.
func (c *Connection) MGet(keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("MGET", stringsToBytes(keys)...)
}
func (c *Connection) MSet(pairs map[string]string) *VoidReply {
	return c.sendVoid("MSET", pairsToBytes(pairs)...)
}
func (c *Connection) MSetNX(pairs map[string]string) *BoolReply {
	return c.sendBool("MSETNX", pairsToBytes(pairs)...)
}

// --- Lists ---

func (c *Connection) RPush(key, value string) *IntegerReply {
	return c.sendInteger("RPUSH", []byte(key), []byte(value))
}
func (c *Connection) LPush(key, value string) *IntegerReply {
	return c.sendInteger("LPUSH", []byte(key), []byte(value))
}
func (c *Connection) LLen(key string) *IntegerReply { return c.sendInteger("LLEN", []byte(key)) }
func (c *Connection) LRange(key string, start, stop int64) *MultiBulkReply {
	return c.sendMultiBulk("LRANGE", []byte(key), itob(start), itob(stop))
}
func (c *Connection) LTrim(key string, start, stop int64) *VoidReply {
	return c.sendVoid("LTRIM", []byte(key), itob(start), itob(stop))
}
func (c *Connection) LIndex(key string, index int64) *BulkReply {
	return c.sendBulk("LINDEX", []byte(key), itob(index))
}
func (c *Connection) LSet(key string, index int64, value string) *VoidReply {
	return c.sendVoid("LSET", []byte(key), itob(index), []byte(value))
}
func (c *Connection) LRem(key string, count int64, value string) *IntegerReply {
	return c.sendInteger("LREM", []byte(key), itob(count), []byte(value))
}
func (c *Connection) LPop(key string) *BulkReply { return c.sendBulk("LPOP", []byte(key)) }
func (c *Connection) RPop(key string) *BulkReply { return c.sendBulk("RPOP", []byte(key)) }

// BLPop and BRPop carry a server-side timeout in seconds; a timed-out wait
// surfaces as a MultiBulk with null-array count (§5's timeout note).
func (c *Connection) BLPop(timeoutSeconds int64, keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("BLPOP", append(stringsToBytes(keys), itob(timeoutSeconds))...)
}
func (c *Connection) BRPop(timeoutSeconds int64, keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("BRPOP", append(stringsToBytes(keys), itob(timeoutSeconds))...)
}
func (c *Connection) RPopLPush(src, dst string) *BulkReply {
	return c.sendBulk("RPOPLPUSH", []byte(src), []byte(dst))
}

// --- Sets ---

func (c *Connection) SAdd(key, member string) *BoolReply {
	return c.sendBool("SADD", []byte(key), []byte(member))
}
func (c *Connection) SRem(key, member string) *BoolReply {
	return c.sendBool("SREM", []byte(key), []byte(member))
}
func (c *Connection) SPop(key string) *BulkReply { return c.sendBulk("SPOP", []byte(key)) }
func (c *Connection) SMove(src, dst, member string) *BoolReply {
	return c.sendBool("SMOVE", []byte(src), []byte(dst), []byte(member))
}
func (c *Connection) SCard(key string) *IntegerReply { return c.sendInteger("SCARD", []byte(key)) }
func (c *Connection) SIsMember(key, member string) *BoolReply {
	return c.sendBool("SISMEMBER", []byte(key), []byte(member))
}
func (c *Connection) SMembers(key string) *MultiBulkReply {
	return c.sendMultiBulk("SMEMBERS", []byte(key))
}
func (c *Connection) SRandMember(key string) *BulkReply {
	return c.sendBulk("SRANDMEMBER", []byte(key))
}

// SInter, SInterStore, SUnion, SUnionStore, SDiff, and SDiffStore
// supplement the set-algebra family the distilled original left as
// //TODO: stubs (SPEC_FULL.md §6).
func (c *Connection) SInter(keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("SINTER", stringsToBytes(keys)...)
}
func (c *Connection) SInterStore(dst string, keys ...string) *IntegerReply {
	return c.sendInteger("SINTERSTORE", append([][]byte{[]byte(dst)}, stringsToBytes(keys)...)...)
}
func (c *Connection) SUnion(keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("SUNION", stringsToBytes(keys)...)
}
func (c *Connection) SUnionStore(dst string, keys ...string) *IntegerReply {
	return c.sendInteger("SUNIONSTORE", append([][]byte{[]byte(dst)}, stringsToBytes(keys)...)...)
}
func (c *Connection) SDiff(keys ...string) *MultiBulkReply {
	return c.sendMultiBulk("SDIFF", stringsToBytes(keys)...)
}
func (c *Connection) SDiffStore(dst string, keys ...string) *IntegerReply {
	return c.sendInteger("SDIFFSTORE", append([][]byte{[]byte(dst)}, stringsToBytes(keys)...)...)
}

// --- Hashes ---

func (c *Connection) HSet(key, field, value string) *BoolReply {
	return c.sendBool("HSET", []byte(key), []byte(field), []byte(value))
}
func (c *Connection) HGet(key, field string) *BulkReply {
	return c.sendBulk("HGET", []byte(key), []byte(field))
}
func (c *Connection) HSetNX(key, field, value string) *BoolReply {
	return c.sendBool("HSETNX", []byte(key), []byte(field), []byte(value))
}

// HMGet and HMSet supplement the hash-multi family left as //TODO: stubs
// (SPEC_FULL.md §6), mirroring the Hash-family multi-bulk encoding HSet/HGet
// already use.
func (c *Connection) HMGet(key string, fields ...string) *MultiBulkReply {
	return c.sendMultiBulk("HMGET", append([][]byte{[]byte(key)}, stringsToBytes(fields)...)...)
}
func (c *Connection) HMSet(key string, fields map[string]string) *VoidReply {
	return c.sendVoid("HMSET", append([][]byte{[]byte(key)}, pairsToBytes(fields)...)...)
}
func (c *Connection) HIncrBy(key, field string, delta int64) *IntegerReply {
	return c.sendInteger("HINCRBY", []byte(key), []byte(field), itob(delta))
}
func (c *Connection) HExists(key, field string) *BoolReply {
	return c.sendBool("HEXISTS", []byte(key), []byte(field))
}
func (c *Connection) HDel(key, field string) *BoolReply {
	return c.sendBool("HDEL", []byte(key), []byte(field))
}
func (c *Connection) HLen(key string) *IntegerReply { return c.sendInteger("HLEN", []byte(key)) }
func (c *Connection) HKeys(key string) *MultiBulkReply {
	return c.sendMultiBulk("HKEYS", []byte(key))
}
func (c *Connection) HVals(key string) *MultiBulkReply {
	return c.sendMultiBulk("HVALS", []byte(key))
}
func (c *Connection) HGetAll(key string) *MultiBulkReply {
	return c.sendMultiBulk("HGETALL", []byte(key))
}

// --- Sorted sets (supplemented; SPEC_FULL.md §6) ---

func (c *Connection) ZAdd(key string, score float64, member string) *BoolReply {
	return c.sendBool("ZADD", []byte(key), ftob(score), []byte(member))
}
func (c *Connection) ZScore(key, member string) *BulkReply {
	return c.sendBulk("ZSCORE", []byte(key), []byte(member))
}
func (c *Connection) ZRem(key, member string) *BoolReply {
	return c.sendBool("ZREM", []byte(key), []byte(member))
}
func (c *Connection) ZIncrBy(key string, delta float64, member string) *BulkReply {
	return c.sendBulk("ZINCRBY", []byte(key), ftob(delta), []byte(member))
}
func (c *Connection) ZRange(key string, start, stop int64) *MultiBulkReply {
	return c.sendMultiBulk("ZRANGE", []byte(key), itob(start), itob(stop))
}
func (c *Connection) ZRevRange(key string, start, stop int64) *MultiBulkReply {
	return c.sendMultiBulk("ZREVRANGE", []byte(key), itob(start), itob(stop))
}
func (c *Connection) ZRangeByScore(key string, min, max float64) *MultiBulkReply {
	return c.sendMultiBulk("ZRANGEBYSCORE", []byte(key), ftob(min), ftob(max))
}
func (c *Connection) ZCard(key string) *IntegerReply { return c.sendInteger("ZCARD", []byte(key)) }
func (c *Connection) ZRank(key, member string) *IntegerReply {
	return c.sendInteger("ZRANK", []byte(key), []byte(member))
}
func (c *Connection) ZRevRank(key, member string) *IntegerReply {
	return c.sendInteger("ZREVRANK", []byte(key), []byte(member))
}
func (c *Connection) ZCount(key string, min, max float64) *IntegerReply {
	return c.sendInteger("ZCOUNT", []byte(key), ftob(min), ftob(max))
}
func (c *Connection) ZRemRangeByRank(key string, start, stop int64) *IntegerReply {
	return c.sendInteger("ZREMRANGEBYRANK", []byte(key), itob(start), itob(stop))
}
func (c *Connection) ZRemRangeByScore(key string, min, max float64) *IntegerReply {
	return c.sendInteger("ZREMRANGEBYSCORE", []byte(key), ftob(min), ftob(max))
}

// --- Scripting ---

func (c *Connection) ScriptExists(sha string) *MultiBulkReply {
	return c.sendMultiBulk("SCRIPT", []byte("EXISTS"), []byte(sha))
}
func (c *Connection) ScriptFlush() *VoidReply { return c.sendVoid("SCRIPT", []byte("FLUSH")) }
func (c *Connection) ScriptKill() *VoidReply  { return c.sendVoid("SCRIPT", []byte("KILL")) }
func (c *Connection) ScriptLoad(body string) *BulkReply {
	return c.sendBulk("SCRIPT", []byte("LOAD"), []byte(body))
}
func (c *Connection) Eval(body string, numKeys int, keysAndArgs ...string) *MultiBulkReply {
	args := append([][]byte{[]byte(body), itob(int64(numKeys))}, stringsToBytes(keysAndArgs)...)
	return c.sendMultiBulk("EVAL", args...)
}
func (c *Connection) EvalSha(sha string, numKeys int, keysAndArgs ...string) *MultiBulkReply {
	args := append([][]byte{[]byte(sha), itob(int64(numKeys))}, stringsToBytes(keysAndArgs)...)
	return c.sendMultiBulk("EVALSHA", args...)
}

// --- Admin ---

func (c *Connection) Save() *VoidReply           { return c.sendVoid("SAVE") }
func (c *Connection) BGSave() *VoidReply         { return c.sendVoid("BGSAVE") }
func (c *Connection) BGRewriteAOF() *VoidReply   { return c.sendVoid("BGREWRITEAOF") }
func (c *Connection) LastSave() *IntegerReply    { return c.sendInteger("LASTSAVE") }
func (c *Connection) Shutdown() *VoidReply       { return c.sendVoid("SHUTDOWN") }
func (c *Connection) Info() *BulkReply           { return c.sendBulk("INFO") }

// Sort supplements SORT, left as a //TODO: stub in the distilled original
// (SPEC_FULL.md §6). This wrapper covers the common ASC/DESC no-pattern
// case only; BY, GET, LIMIT, ALPHA, and STORE clauses are not supported.
func (c *Connection) Sort(key string, desc bool) *MultiBulkReply {
	if desc {
		return c.sendMultiBulk("SORT", []byte(key), []byte("DESC"))
	}
	return c.sendMultiBulk("SORT", []byte(key))
}

// --- Pub/Sub ---
//
// Subscribe, Unsubscribe, PSubscribe, and PUnsubscribe issue the
// subscription verbs and return the server's acknowledgement like any
// other Void command; they do not themselves switch the Connection into
// a mode that reads the subsequent stream of "message"/"pmessage" pushes
// — driving that receive loop is a Non-goal (SPEC_FULL.md §1).
func (c *Connection) Subscribe(channels ...string) *VoidReply {
	return c.sendVoid("SUBSCRIBE", stringsToBytes(channels)...)
}
func (c *Connection) Unsubscribe(channels ...string) *VoidReply {
	return c.sendVoid("UNSUBSCRIBE", stringsToBytes(channels)...)
}
func (c *Connection) PSubscribe(patterns ...string) *VoidReply {
	return c.sendVoid("PSUBSCRIBE", stringsToBytes(patterns)...)
}
func (c *Connection) PUnsubscribe(patterns ...string) *VoidReply {
	return c.sendVoid("PUNSUBSCRIBE", stringsToBytes(patterns)...)
}
func (c *Connection) Publish(channel, message string) *IntegerReply {
	return c.sendInteger("PUBLISH", []byte(channel), []byte(message))
}

func stringsToBytes(ss []string) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = []byte(s)
	}
	return out
}

func pairsToBytes(pairs map[string]string) [][]byte {
	out := make([][]byte, 0, len(pairs)*2)
	for k, v := range pairs {
		out = append(out, []byte(k), []byte(v))
	}
	return out
}
