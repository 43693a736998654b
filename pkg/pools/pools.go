// Package pools provides object pooling for reducing GC pressure.
//
// Diamond identification churns through short-lived node-id slices and
// node-set maps while intersecting ancestor sets. The pools here recycle
// those scratch allocations:
//
//   - Uint64Pool: pooling for uint64 slices (node ids, edge endpoints)
//   - NodeSetPool: pooling for node-id set maps
package pools
