package pools

import (
	"sync"
)

// NodeSetPool pools map[uint64]struct{} scratch sets used during ancestor
// intersections and per-parent fork collection.
type NodeSetPool struct {
	pool sync.Pool
}

// NewNodeSetPool creates a new node set pool.
func NewNodeSetPool() *NodeSetPool {
	return &NodeSetPool{
		pool: sync.Pool{
			New: func() any {
				return make(map[uint64]struct{}, 16)
			},
		},
	}
}

// Get returns a cleared set from the pool.
func (p *NodeSetPool) Get() map[uint64]struct{} {
	m, ok := p.pool.Get().(map[uint64]struct{})
	if !ok {
		return make(map[uint64]struct{}, 16)
	}
	clear(m)
	return m
}

// Put returns a set to the pool.
func (p *NodeSetPool) Put(m map[uint64]struct{}) {
	if m == nil || len(m) > 4096 {
		return // Don't pool nil or very large sets
	}
	p.pool.Put(m)
}

// Default global node set pool
var defaultNodeSetPool = NewNodeSetPool()

// GetNodeSet returns a scratch set from the default pool.
func GetNodeSet() map[uint64]struct{} {
	return defaultNodeSetPool.Get()
}

// PutNodeSet returns a scratch set to the default pool.
func PutNodeSet(m map[uint64]struct{}) {
	defaultNodeSetPool.Put(m)
}
