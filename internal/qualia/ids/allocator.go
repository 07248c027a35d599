package ids

import "sync/atomic"

// counterAllocator is the default IdAllocator: a bare increment with no
// overflow policy, matching the original's id generators. At 2^64 calls per
// space this is not a practical concern; callers that need ids to survive a
// restart should supply internal/idledger's allocator instead.
type counterAllocator struct {
	surfaces atomic.Uint64
	pools    atomic.Uint64
	views    atomic.Uint64
}

// NewCounterAllocator returns an in-memory IdAllocator starting all three
// spaces at 1 (0 is reserved invalid).
func NewCounterAllocator() IdAllocator {
	return &counterAllocator{}
}

func (a *counterAllocator) NextSurfaceId() SurfaceId {
	return SurfaceId(a.surfaces.Add(1))
}

func (a *counterAllocator) NextMemoryPoolId() MemoryPoolId {
	return MemoryPoolId(a.pools.Add(1))
}

func (a *counterAllocator) NextMemoryViewId() MemoryViewId {
	return MemoryViewId(a.views.Add(1))
}
