package services

import (
	"sync"

	"github.com/google/uuid"
)

// caseLocks serializes judgment and argument writes per case within this
// process. Sequence numbers and versions are "read count, write count+1",
// so two concurrent writers for the same case must not interleave; the
// unique constraints on (case_id, version) and (case_id, sequence_number)
// remain the cross-process backstop and surface as
// ConcurrentModification when another instance wins the race.
type caseLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newCaseLocks() *caseLocks {
	return &caseLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

func (cl *caseLocks) lock(caseID uuid.UUID) func() {
	cl.mu.Lock()
	m, ok := cl.locks[caseID]
	if !ok {
		m = &sync.Mutex{}
		cl.locks[caseID] = m
	}
	cl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
