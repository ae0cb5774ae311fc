package ratelimit

import (
	"hash/fnv"
	"math"
	"sync"
	"time"
)

// Config configures the limiter. Immutable after construction.
type Config struct {
	// RequestsPerMinute is the sustained refill rate.
	// Default: 60
	RequestsPerMinute int

	// Burst is the bucket capacity: the number of requests a client may
	// make instantaneously.
	// Default: 10
	Burst int

	// Enabled gates all checks. When false, Allow always admits.
	Enabled bool

	// IdleTTL is how long an untouched client bucket survives before it
	// is swept.
	// Default: 10 minutes
	IdleTTL time.Duration
}

// Status reports a client's bucket state, suitable for emission as
// rate-limit response headers.
type Status struct {
	// Remaining is the whole number of requests currently admittable.
	Remaining uint

	// Limit is the burst capacity.
	Limit uint

	// ResetAt is the epoch second at which the bucket is back at full
	// capacity given the sustained refill rate.
	ResetAt int64
}

// bucket is per-client state. tokens stays within [0, burst]; a failed
// check does not decrement.
type bucket struct {
	tokens     float64
	lastUpdate time.Time
}

func (b *bucket) refill(now time.Time, rate, burst float64) {
	elapsed := now.Sub(b.lastUpdate).Seconds()
	if elapsed > 0 {
		b.tokens = math.Min(burst, b.tokens+elapsed*rate)
	}
	b.lastUpdate = now
}

const (
	shardCount = 16

	// sweepEvery amortizes idle-bucket eviction over mutations so no
	// background goroutine is needed.
	sweepEvery = 256
)

type shard struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ops     uint
}

// sweepLocked drops buckets idle longer than ttl.
func (s *shard) sweepLocked(now time.Time, ttl time.Duration) {
	for id, b := range s.buckets {
		if now.Sub(b.lastUpdate) > ttl {
			delete(s.buckets, id)
		}
	}
}

// Limiter tracks one token bucket per client identity.
//
// Buckets are created lazily at full capacity on a client's first
// request. State is partitioned across sharded locks keyed by client
// identity, so one client's checks never contend with or affect
// another's. Safe for concurrent use.
type Limiter struct {
	config Config
	shards [shardCount]*shard
}

// NewLimiter creates a new limiter.
func NewLimiter(config Config) *Limiter {
	// Apply defaults
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}

	l := &Limiter{config: config}
	for i := range l.shards {
		l.shards[i] = &shard{buckets: make(map[string]*bucket)}
	}
	return l
}

// Allow reports whether a request from clientID is admitted, consuming
// one token if so. Rejected requests consume nothing.
func (l *Limiter) Allow(clientID string) bool {
	if !l.config.Enabled {
		return true
	}

	s := l.shardFor(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.ops++
	if s.ops%sweepEvery == 0 {
		s.sweepLocked(now, l.config.IdleTTL)
	}

	b, ok := s.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.config.Burst), lastUpdate: now}
		s.buckets[clientID] = b
	}

	b.refill(now, l.ratePerSecond(), float64(l.config.Burst))

	if b.tokens >= 1.0 {
		b.tokens -= 1.0
		return true
	}
	return false
}

// Status returns the current bucket state for clientID without
// consuming tokens. Unknown clients report a full bucket.
func (l *Limiter) Status(clientID string) Status {
	limit := uint(l.config.Burst)
	now := time.Now()

	if !l.config.Enabled {
		return Status{Remaining: limit, Limit: limit, ResetAt: now.Unix()}
	}

	s := l.shardFor(clientID)
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[clientID]
	if !ok {
		return Status{Remaining: limit, Limit: limit, ResetAt: now.Unix()}
	}

	// Project the refill without writing it back.
	tokens := math.Min(float64(l.config.Burst),
		b.tokens+now.Sub(b.lastUpdate).Seconds()*l.ratePerSecond())

	return Status{
		Remaining: uint(math.Floor(tokens)),
		Limit:     limit,
		ResetAt:   l.resetAt(now, tokens),
	}
}

// Len reports the number of tracked client buckets.
func (l *Limiter) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.buckets)
		s.mu.Unlock()
	}
	return n
}

func (l *Limiter) shardFor(clientID string) *shard {
	h := fnv.New32a()
	h.Write([]byte(clientID))
	return l.shards[h.Sum32()%shardCount]
}

func (l *Limiter) ratePerSecond() float64 {
	return float64(l.config.RequestsPerMinute) / 60.0
}

// resetAt is the time the bucket reaches full capacity at the sustained
// refill rate, rounded up to whole seconds.
func (l *Limiter) resetAt(now time.Time, tokens float64) int64 {
	deficit := float64(l.config.Burst) - tokens
	if deficit <= 0 {
		return now.Unix()
	}
	secs := math.Ceil(deficit / l.ratePerSecond())
	return now.Add(time.Duration(secs) * time.Second).Unix()
}
