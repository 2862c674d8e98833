package router

import (
	"context"
	"math/rand"
	"time"
)

// SeededShuffler is a Fisher-Yates shuffler over a seedable source, so tests
// can pin agent order.
type SeededShuffler struct {
	rng *rand.Rand
}

// NewSeededShuffler creates a shuffler. Seed 0 means time-seeded.
func NewSeededShuffler(seed int64) *SeededShuffler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SeededShuffler{rng: rand.New(rand.NewSource(seed))}
}

// Shuffle permutes n elements via the swap function.
func (s *SeededShuffler) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// realSleeper waits on the wall clock, honoring context cancellation.
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NoopSleeper skips all pacing delays. Used in tests and the API server's
// dry runs.
type NoopSleeper struct{}

// Sleep returns immediately.
func (NoopSleeper) Sleep(context.Context, time.Duration) {}
