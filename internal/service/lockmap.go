package service

import "sync"

const completionLockShards = 64

// completionLocks serializes progress recomputation per (user, course) pair.
// Two concurrent completions for the same pair would otherwise both read a
// stale lesson count and overwrite each other's enrollment update. Striping
// bounds memory; unrelated pairs may occasionally share a shard.
type completionLocks struct {
	shards [completionLockShards]sync.Mutex
}

func (l *completionLocks) lock(userID, courseID uint) *sync.Mutex {
	mu := &l.shards[(userID*31+courseID)%completionLockShards]
	mu.Lock()
	return mu
}
