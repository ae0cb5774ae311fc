// Package ratelimit admits or rejects requests per client identity
// using token buckets with continuous refill.
//
// Each client gets a lazily created bucket holding up to Burst tokens,
// refilled at RequestsPerMinute/60 tokens per second. A check consumes
// one token when admitted and consumes nothing when rejected, so
// rejection never penalizes a client further. Buckets are partitioned
// across sharded locks and swept after a configurable idle period.
package ratelimit
