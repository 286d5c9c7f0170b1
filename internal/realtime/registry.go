package realtime

import "sync"

// Registry 在线用户与连接的映射。进程内实现足够单实例部署，
// 水平扩容时换成外部存储的实现即可
type Registry interface {
	Put(userID uint64, connID string)
	Remove(connID string)
	Get(userID uint64) (string, bool)
}

type MemoryRegistry struct {
	mu     sync.RWMutex
	byUser map[uint64]string
	byConn map[string]uint64
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		byUser: make(map[uint64]string),
		byConn: make(map[string]uint64),
	}
}

func (r *MemoryRegistry) Put(userID uint64, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 同一用户重连时旧映射直接顶掉
	if old, ok := r.byUser[userID]; ok {
		delete(r.byConn, old)
	}
	r.byUser[userID] = connID
	r.byConn[connID] = userID
}

// Remove 断连时按连接反查用户
func (r *MemoryRegistry) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID, ok := r.byConn[connID]; ok {
		delete(r.byConn, connID)
		if r.byUser[userID] == connID {
			delete(r.byUser, userID)
		}
	}
}

func (r *MemoryRegistry) Get(userID uint64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}
