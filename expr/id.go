package expr

import "sync/atomic"

var lastID atomic.Int64

// NextID returns a fresh process-wide identifier. Identifiers start at 1;
// 0 is reserved for the constant slot (see One).
func NextID() int { return int(lastID.Add(1)) }
