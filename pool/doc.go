// Package pool
// Author: momentics <momentics@gmail.com>
//
// Generic recycling primitives: a lock-free ring buffer (ring.go) and a
// fixed-capacity object hive built on top of it (hive.go), used by
// internal/poll's Store to recycle poll records without per-acquire
// allocation in the steady state.
package pool
