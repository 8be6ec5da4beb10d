package store

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Cached coalesces concurrent lookups of the same share id into one backend query.
type Cached struct {
	Store
	group singleflight.Group
}

// NewCached wraps a store.
func NewCached(s Store) *Cached {
	return &Cached{Store: s}
}

// GetShared loads a shared result, sharing one in-flight query per id.
// The query outlives a cancelled caller so coalesced callers still get
// an answer. Each caller receives a deep copy.
func (c *Cached) GetShared(ctx context.Context, id string) (*SharedResult, error) {
	ch := c.group.DoChan(id, func() (any, error) {
		return c.Store.GetShared(context.WithoutCancel(ctx), id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := *res.Val.(*SharedResult)
		shared.Result = shared.Result.Clone()
		return &shared, nil
	}
}
