package grammar

import "sync/atomic"

var nextMatchID uint64

// idBase is embedded in every combinator to give it a stable identity for
// memoization, independent of the value's contents (two structurally equal
// but separately-constructed Sequences are different matchers).
type idBase struct {
	id uint64
}

func newIDBase() idBase {
	return idBase{id: atomic.AddUint64(&nextMatchID, 1)}
}

func (b idBase) matchID() uint64 { return b.id }
