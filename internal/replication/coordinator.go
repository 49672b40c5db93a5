package replication

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/janeta1/PR-labs/internal/storage"
	"github.com/janeta1/PR-labs/internal/version"
)

const (
	// DefaultReplicateTimeout bounds each outbound replicate call.
	DefaultReplicateTimeout = 5 * time.Second

	// maxInflight caps concurrent outbound replicate calls. Submissions
	// beyond the cap queue on the semaphore without blocking the writer.
	maxInflight = 100
)

// ReplicateFunc sends a single replicate request to the follower at baseURL.
// It reports true only for a success response; transport errors, non-success
// statuses and timeouts all count as a missed ack.
type ReplicateFunc func(ctx context.Context, baseURL, key, value string, version uint64) bool

// WriteResult represents the outcome of a coordinated write.
type WriteResult struct {
	Committed bool
	Acks      int
	Version   uint64
	Required  int
}

// Coordinator owns the leader write path. It serializes version allocation
// and local apply under their respective locks, then fans each write out to
// the configured followers and waits for the write quorum.
type Coordinator struct {
	store     storage.Store
	alloc     *version.Allocator
	followers []string
	quorum    int
	minDelay  time.Duration
	maxDelay  time.Duration
	replicate ReplicateFunc
	inflight  chan struct{}
}

// NewCoordinator creates a coordinator for the given follower set. minDelay
// and maxDelay bound the uniform jitter slept before each outbound call,
// simulating network variance.
func NewCoordinator(store storage.Store, followers []string, quorum int, minDelay, maxDelay time.Duration, replicate ReplicateFunc) *Coordinator {
	return &Coordinator{
		store:     store,
		alloc:     version.NewAllocator(),
		followers: followers,
		quorum:    quorum,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
		replicate: replicate,
		inflight:  make(chan struct{}, maxInflight),
	}
}

// Write stamps the entry with a fresh version, applies it to the local store,
// and replicates it to every follower in parallel. Completions are consumed
// in arrival order; Write returns the moment the ack count reaches the
// quorum, leaving any still-running replicate calls to finish detached.
// They are never cancelled and only affect follower-local state.
//
// If every follower completes without the quorum being reached, the write is
// reported uncommitted with the acks collected. The local apply is not
// rolled back in that case: the leader's own copy stays authoritative for
// reads even when the client is told the write failed. Failed follower
// calls are never retried.
func (c *Coordinator) Write(ctx context.Context, key, value string) WriteResult {
	v := c.alloc.Next()
	c.store.Apply(key, value, v)

	// Buffered to the fan-out width so detached tasks never block on send.
	results := make(chan bool, len(c.followers))
	for _, follower := range c.followers {
		go c.replicateOne(follower, key, value, v, results)
	}

	res := WriteResult{Version: v, Required: c.quorum}
	pending := len(c.followers)

	for res.Acks < c.quorum && pending > 0 {
		select {
		case ok := <-results:
			pending--
			if ok {
				res.Acks++
			}
		case <-ctx.Done():
			log.Printf("[leader] write abandoned: key=%s version=%d acks=%d/%d: %v",
				key, v, res.Acks, c.quorum, ctx.Err())
			return res
		}
	}

	res.Committed = res.Acks >= c.quorum
	return res
}

// replicateOne runs on its own goroutine. It acquires an inflight slot,
// sleeps the configured jitter, then performs the replicate call under its
// own timeout, independent of the originating request.
func (c *Coordinator) replicateOne(baseURL, key, value string, v uint64, results chan<- bool) {
	c.inflight <- struct{}{}
	defer func() { <-c.inflight }()

	if d := c.jitter(); d > 0 {
		time.Sleep(d)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultReplicateTimeout)
	defer cancel()

	ok := c.replicate(ctx, baseURL, key, value, v)
	if !ok {
		log.Printf("[leader] replicate to %s failed: key=%s version=%d", baseURL, key, v)
	}
	results <- ok
}

// jitter draws a delay uniformly from [minDelay, maxDelay].
func (c *Coordinator) jitter() time.Duration {
	if c.maxDelay <= c.minDelay {
		return c.minDelay
	}
	return c.minDelay + time.Duration(rand.Int63n(int64(c.maxDelay-c.minDelay)))
}
