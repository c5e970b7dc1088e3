// Package blockcache keeps decoded block payloads in a fixed-capacity LRU
// cache fronting the expensive TIFF decode path.
//
// The cache is deliberately not thread-safe: all state mutation happens on
// the single owning context (the interactive loop, or the CLI command
// driving it). Background workers only perform I/O and deliver their result
// through the Results channel; the owning context receives each Result and
// applies it with Complete. That keeps the LRU ordering structure
// single-writer without a lock.
package blockcache

import (
	"container/list"
	"context"
	"fmt"
	"log"

	"github.com/aind-data/blockhound/internal/registry"
)

// Channel is one decoded channel plane of a block.
type Channel struct {
	Width  int
	Height int
	Pixels []float32 // row-major, Width*Height values
}

// Payload is the fully decoded data for one block. Payloads are immutable
// after population, so callers may keep reading one even after the cache
// evicts it.
type Payload struct {
	BlockID  string
	Channels []Channel
}

// LoadFunc performs the expensive decode for one block. It runs on a
// background goroutine and must not touch cache state.
type LoadFunc func(block registry.Block) (*Payload, error)

// LoadError reports a failed load for a single block. One block's failure
// never affects other cache entries.
type LoadError struct {
	BlockID string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load block %s: %v", e.BlockID, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is a finished background load, delivered on the Results channel.
type Result struct {
	BlockID string
	Payload *Payload
	Err     error
}

type entry struct {
	blockID string
	payload *Payload
}

// Cache is the bounded LRU block cache with single-flight background loads.
type Cache struct {
	capacity int
	load     LoadFunc

	entries map[string]*list.Element
	order   *list.List // front = most recently used

	loading map[string][]chan Result // in-flight block → attached waiters
	results chan Result
}

// New creates a cache holding at most capacity decoded blocks. capacity
// must be >= 1.
func New(capacity int, load LoadFunc) (*Cache, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("cache capacity must be >= 1, got %d", capacity)
	}
	if load == nil {
		return nil, fmt.Errorf("load function cannot be nil")
	}

	return &Cache{
		capacity: capacity,
		load:     load,
		entries:  map[string]*list.Element{},
		order:    list.New(),
		loading:  map[string][]chan Result{},
		results:  make(chan Result, capacity+1),
	}, nil
}

// Get returns the cached payload for block if it is ready, marking it most
// recently used. Otherwise it returns a nil payload and a channel that will
// receive the load result once the owning context has applied it via
// Complete; the load itself runs in the background, so Get never blocks on
// I/O. A second Get for a block already loading attaches to the in-flight
// load instead of starting a duplicate.
func (c *Cache) Get(block registry.Block) (*Payload, <-chan Result) {
	if el, ok := c.entries[block.ID]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*entry).payload, nil
	}

	done := make(chan Result, 1)

	if _, inFlight := c.loading[block.ID]; inFlight {
		c.loading[block.ID] = append(c.loading[block.ID], done)
		return nil, done
	}

	c.loading[block.ID] = []chan Result{done}
	c.startLoad(block)
	return nil, done
}

// Preload schedules background loads for any of the given blocks that are
// neither cached nor already in flight. Results arrive on the Results
// channel like any other load; no waiter is attached.
func (c *Cache) Preload(blocks []registry.Block) {
	for _, b := range blocks {
		if _, ok := c.entries[b.ID]; ok {
			continue
		}
		if _, inFlight := c.loading[b.ID]; inFlight {
			continue
		}
		c.loading[b.ID] = nil
		c.startLoad(b)
	}
}

func (c *Cache) startLoad(block registry.Block) {
	go func() {
		payload, err := c.load(block)
		if err != nil {
			err = &LoadError{BlockID: block.ID, Err: err}
			log.Printf("[loader] block %s failed: %v", block.ID, err)
		}
		c.results <- Result{BlockID: block.ID, Payload: payload, Err: err}
	}()
}

// Results is the delivery channel for finished background loads. The owning
// context must receive from it and pass every Result to Complete; workers
// park on the send once the buffer fills, so an unpumped channel stalls
// loading but never corrupts state.
func (c *Cache) Results() <-chan Result {
	return c.results
}

// Complete applies a finished load to cache state. Must be called from the
// owning context. On success the block becomes ready, evicting the least
// recently used entry if the cache is at capacity; on failure the block
// returns to absent. Attached waiters are notified either way, and no
// partial entry is ever visible.
func (c *Cache) Complete(res Result) {
	waiters := c.loading[res.BlockID]
	delete(c.loading, res.BlockID)

	if res.Err == nil && res.Payload != nil {
		c.insert(res.BlockID, res.Payload)
	}

	for _, w := range waiters {
		w <- res
	}
}

func (c *Cache) insert(blockID string, payload *Payload) {
	if el, ok := c.entries[blockID]; ok {
		el.Value.(*entry).payload = payload
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*entry).blockID)
		}
	}

	c.entries[blockID] = c.order.PushFront(&entry{blockID: blockID, payload: payload})
}

// Contains reports whether the block is ready in the cache, without
// touching its recency.
func (c *Cache) Contains(blockID string) bool {
	_, ok := c.entries[blockID]
	return ok
}

// Loading reports whether a load for the block is currently in flight.
func (c *Cache) Loading(blockID string) bool {
	_, ok := c.loading[blockID]
	return ok
}

// Len returns the number of ready entries.
func (c *Cache) Len() int {
	return c.order.Len()
}

// LoadBlocking fetches the block, driving the delivery loop until its load
// completes. It exists for non-interactive callers (CLI commands) that have
// no event loop of their own; interactive callers should pump Results
// themselves.
func (c *Cache) LoadBlocking(ctx context.Context, block registry.Block) (*Payload, error) {
	payload, done := c.Get(block)
	if payload != nil {
		return payload, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case res := <-c.results:
			c.Complete(res)

		case res := <-done:
			if res.Err != nil {
				return nil, res.Err
			}
			// Mark most recently used on behalf of the requester. The
			// entry may already have been evicted by a racing Complete;
			// the payload from the result is still valid (immutable).
			if c.Contains(block.ID) {
				payload, _ := c.Get(block)
				return payload, nil
			}
			return res.Payload, nil
		}
	}
}
