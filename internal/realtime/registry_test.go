package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryPutGet(t *testing.T) {
	r := NewMemoryRegistry()

	r.Put(1, "conn-a")
	connID, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-a", connID)

	_, ok = r.Get(2)
	assert.False(t, ok)
}

func TestRegistryReconnectDisplacesOldConn(t *testing.T) {
	r := NewMemoryRegistry()

	r.Put(1, "conn-a")
	r.Put(1, "conn-b")

	connID, ok := r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-b", connID)

	// 旧连接断开时不能影响新映射
	r.Remove("conn-a")
	connID, ok = r.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "conn-b", connID)
}

func TestRegistryRemove(t *testing.T) {
	r := NewMemoryRegistry()

	r.Put(1, "conn-a")
	r.Remove("conn-a")

	_, ok := r.Get(1)
	assert.False(t, ok)

	// 幂等
	r.Remove("conn-a")
}
