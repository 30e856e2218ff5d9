package cart

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// sessionLocks serializes operations on the same session id within one
// process while letting different sessions proceed in parallel.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
